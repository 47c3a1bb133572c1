package echoapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core/form"
)

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object")

// bindChanges decodes the JSON object of a request body into form changes.
// An empty body carries no change.
func bindChanges(ctx echo.Context) (form.Values, error) {
	changes := form.Values{}
	body := ctx.Request().Body
	if body == nil {
		return changes, nil
	}
	if err := json.NewDecoder(body).Decode(&changes); err != nil && err != io.EOF {
		return nil, errInvalidBody
	}
	return changes, nil
}

// submitForm opens the dialog of entity (create mode when nil), applies the request changes
// and submits it into payload.
func (s *Server) submitForm(ctx echo.Context, defaults form.Values, entity interface{}, payload form.Payload) error {
	changes, err := bindChanges(ctx)
	if err != nil {
		return err
	}
	state, err := form.New(defaults, entity)
	if err != nil {
		return errors.Wrap(err, "opening form")
	}
	if _, err = s.reducer.Submit(state, changes, payload); err != nil {
		return err
	}
	return nil
}
