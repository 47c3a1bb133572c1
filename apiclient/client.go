// Package apiclient talks to the Diplomasi REST API on behalf of the admin dashboard.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/diplomasi/admin/core"
)

const DefaultBaseURL = "http://localhost:3001/api"

// Error is returned for every non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

// newError reads the message from the JSON body, falling back to the status code.
func newError(res *rest.Response) *Error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := fmt.Sprintf("HTTP error! status: %d", res.StatusCode)
	if err := json.Unmarshal([]byte(res.Body), &body); err == nil {
		if body.Message != "" {
			msg = body.Message
		} else if body.Error != "" {
			msg = body.Error
		}
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

type Client struct {
	baseURL string
	tokens  TokenStore
	rest    *rest.Client
}

func New(conf *core.Config, tokens TokenStore) *Client {
	baseURL := strings.TrimRight(conf.Client.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = new(MemoryTokenStore)
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Client.Timeout}},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Get sends params as the query string and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	return c.do(ctx, rest.Get, endpoint, params, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, params map[string]string, body, out interface{}) error {
	return c.do(ctx, rest.Post, endpoint, params, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, params map[string]string, body, out interface{}) error {
	return c.do(ctx, rest.Put, endpoint, params, body, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, params map[string]string, body, out interface{}) error {
	return c.do(ctx, rest.Patch, endpoint, params, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	return c.do(ctx, rest.Delete, endpoint, params, nil, out)
}

func (c *Client) do(
	ctx context.Context,
	method rest.Method,
	endpoint string,
	params map[string]string,
	body, out interface{},
) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + endpoint,
		QueryParams: params,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
	}
	if token := c.tokens.Token(); token != "" {
		req.Headers["Authorization"] = "Bearer " + token
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = data
	}

	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	httpRes, err := c.rest.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return newError(res)
	}
	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(res.Body), out), "decoding response body")
}
