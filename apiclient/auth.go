package apiclient

import (
	"context"

	"github.com/diplomasi/admin/core/auth"
)

type loginResponse struct {
	Token   string       `json:"token"`
	Session auth.Session `json:"session"`
}

// Login signs in and keeps the issued token for the next requests.
func (c *Client) Login(ctx context.Context, email, pwd string) (auth.Session, error) {
	var res loginResponse
	if err := c.Post(ctx, "/v1/auth/login", nil, auth.LoginData{Email: email, Password: pwd}, &res); err != nil {
		return auth.Session{}, err
	}
	c.tokens.SetToken(res.Token)
	return res.Session, nil
}

func (c *Client) Logout() {
	c.tokens.ClearToken()
}

// Me returns the account signed in with the stored token.
func (c *Client) Me(ctx context.Context) (auth.Account, error) {
	var acc auth.Account
	err := c.Get(ctx, "/v1/auth/me", nil, &acc)
	return acc, err
}
