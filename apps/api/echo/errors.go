package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/dashboard"
	"github.com/diplomasi/admin/core/user"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "account not authenticated")
	errRefreshExpired = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpNotFound   = echo.NewHTTPError(http.StatusNotFound, "not found")
	errMaintenance    = echo.NewHTTPError(http.StatusServiceUnavailable, "the platform is under maintenance")
)

// statusCodes maps the domain sentinel errors to HTTP status codes.
var statusCodes = map[error]int{
	course.ErrNotFound:            http.StatusNotFound,
	course.ErrLevelNotFound:       http.StatusNotFound,
	course.ErrLessonNotFound:      http.StatusNotFound,
	course.ErrQuestionNotFound:    http.StatusNotFound,
	course.ErrStudentNotFound:     http.StatusNotFound,
	user.ErrNotFound:              http.StatusNotFound,
	auth.ErrNotFound:              http.StatusNotFound,
	catalog.ErrUnknownCollection:  http.StatusNotFound,
	catalog.ErrRecordNotFound:     http.StatusNotFound,
	dashboard.ErrNoData:           http.StatusNotFound,
	auth.ErrInvalidCredentials:    http.StatusBadRequest,
	auth.ErrSignupClosed:          http.StatusForbidden,
	catalog.ErrReadOnlyCollection: http.StatusMethodNotAllowed,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if c, ok := statusCodes[cause]; ok {
				code = c
				message = cause.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{errors.Wrap(err, msg)}
			if sess, sErr := getContextSession(ctx); sErr == nil {
				args = append(args, sess)
			}
			logger.Error(msg, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
