package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
)

const contextTokenKey = "userToken"

type (
	// Claims represents the authorization claims transmitted via a JWT.
	Claims struct {
		jwt.StandardClaims
		OrigIssuedAt int64  `json:"oriat,omitempty"`
		Name         string `json:"name,omitempty"`
		Email        string `json:"email,omitempty"`
		Theme        string `json:"theme,omitempty"`
	}

	LoginResponse struct {
		Token   string       `json:"token"`
		Session auth.Session `json:"session"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	tokenIssuer struct {
		conf *core.Config
	}
)

func newTokenIssuer(conf *core.Config) tokenIssuer {
	return tokenIssuer{conf: conf}
}

// jwtConfig is the JWT auth middleware config.
func (ti tokenIssuer) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(ti.conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// NewClaims returns the claims of a session token. origIat is the issue time of the first
// token of the session, kept across refreshes.
func NewClaims(conf *core.Config, sess auth.Session, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sess.AccountID,
			Audience:  "Admin",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         sess.Name,
		Email:        sess.Email,
		Theme:        sess.Theme,
	}
}

// Session returns the session carried by the claims.
func (c Claims) Session() auth.Session {
	return auth.Session{AccountID: c.Subject, Name: c.Name, Email: c.Email, Theme: c.Theme}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func (ti tokenIssuer) issue(sess auth.Session, origIat ...int64) (LoginResponse, error) {
	token, err := GenerateToken(ti.conf, NewClaims(ti.conf, sess, origIat...))
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: token, Session: sess}, nil
}

// refresh issues a new token for the same session until the refresh delta has passed.
func (ti tokenIssuer) refresh(claims Claims, sess auth.Session) (LoginResponse, error) {
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(ti.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return LoginResponse{}, errRefreshExpired
	}
	return ti.issue(sess, claims.OrigIssuedAt)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (auth.Session, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	return claims.Session(), nil
}

// maintenanceMiddleware closes the public auth endpoints while the platform is in maintenance.
func maintenanceMiddleware(s *Server) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			closed, err := s.SettingsSvc.InMaintenance(ctx.Request().Context())
			if err != nil {
				return errors.Wrap(err, "checking maintenance mode")
			}
			if closed {
				return errMaintenance
			}
			return next(ctx)
		}
	}
}

type authApi struct {
	*Server
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := authApi{s}

	ag := g.Group("/auth")

	// public endpoints
	pg := ag.Group("", maintenanceMiddleware(s))
	pg.POST("/signup", api.signup)
	pg.POST("/login", api.login)
	pg.POST("/password-reset", api.resetPassword)
	pg.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	sg := ag.Group("", jwt)
	sg.POST("/token-refresh", api.refreshToken)
	sg.GET("/me", api.me)
	sg.PUT("/me/theme", api.setTheme)
}

// Handlers

func (api authApi) signup(ctx echo.Context) error {
	var data auth.SignupData
	if err := api.submitForm(ctx, nil, nil, &data); err != nil {
		return err
	}

	acc, err := api.AuthSvc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	resp, err := api.tokens.issue(auth.NewSession(acc))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api authApi) login(ctx echo.Context) error {
	var data auth.LoginData
	if err := api.submitForm(ctx, nil, nil, &data); err != nil {
		return err
	}

	acc, err := api.AuthSvc.Login(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidCredentials {
			return core.NewValidationError(auth.ErrInvalidCredentials)
		}
		return errors.Wrap(err, "authenticating")
	}
	resp, err := api.tokens.issue(auth.NewSession(acc))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api authApi) resetPassword(ctx echo.Context) error {
	var data auth.ForgotPasswordData
	if err := api.submitForm(ctx, nil, nil, &data); err != nil {
		return err
	}

	err := api.AuthSvc.RequestPasswordReset(ctx.Request().Context(), data.Email)
	if !(err == nil || errors.Cause(err) == auth.ErrNotFound) {
		// do not return errors to attackers
		api.Logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api authApi) confirmPasswordReset(ctx echo.Context) error {
	var data auth.ResetPasswordData
	if err := api.submitForm(ctx, nil, nil, &data); err != nil {
		return err
	}

	if err := api.AuthSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	acc, err := api.AuthSvc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == auth.ErrNotFound {
			return errUnauthorized
		}
		return errors.Wrap(err, "finding account by ID")
	}

	resp, err := api.tokens.refresh(claims, auth.NewSession(acc))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api authApi) me(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	acc, err := api.AuthSvc.GetByID(ctx.Request().Context(), sess.AccountID)
	if err != nil {
		if errors.Cause(err) == auth.ErrNotFound {
			return errUnauthorized
		}
		return errors.Wrap(err, "finding account by ID")
	}
	return ctx.JSON(http.StatusOK, acc)
}

func (api authApi) setTheme(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data auth.ThemeData
	if err = api.submitForm(ctx, nil, sess, &data); err != nil {
		return err
	}

	acc, err := api.AuthSvc.SetTheme(ctx.Request().Context(), sess.AccountID, data.Theme)
	if err != nil {
		return errors.Wrap(err, "setting theme")
	}
	resp, err := api.tokens.issue(auth.NewSession(acc))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, resp)
}
