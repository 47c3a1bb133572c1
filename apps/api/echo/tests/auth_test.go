package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/diplomasi/admin/apps/api/echo"
	"github.com/diplomasi/admin/core/auth"
	testutil "github.com/diplomasi/admin/tests"
)

func Test_authApi_signup(t *testing.T) {
	e := setup(t)
	testutil.CreateAccount(t, e.accounts, "Sara", "sara@diplomasi.app", "d1plomacy!Rocks")

	body := func(name, email, pwd, confirm string) []byte {
		return marchallObj(t, map[string]string{
			"name": name, "email": email, "password": pwd, "confirmPassword": confirm,
		})
	}

	tests := []httpTest{
		{
			name: "passwords mismatch", body: body("Omar", "omar@diplomasi.app", "d1plomacy!Rocks", "d1plomacy!Rock"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"confirmPassword": "passwords do not match"}),
		},
		{
			name: "email taken", body: body("Sara", "SARA@diplomasi.app", "d1plomacy!Rocks", "d1plomacy!Rocks"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": auth.ErrEmailExists.Error()}),
		},
		{
			name: "invalid body", body: []byte(`["name"]`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "request body must be a JSON object"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/auth/signup"
	}
	runHTTPTests(t, e, tests)

	t.Run("signed up", func(t *testing.T) {
		rec := e.serve(httpTest{
			method: http.MethodPost, path: "/v1/auth/signup",
			body: body("Omar Khaled", "Omar@Diplomasi.app", "d1plomacy!Rocks", "d1plomacy!Rocks"),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp echoapi.LoginResponse
		unmarshal(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "omar@diplomasi.app", resp.Session.Email)
		assert.Equal(t, auth.ThemeSystem, resp.Session.Theme)
	})
}

func Test_authApi_login(t *testing.T) {
	e := setup(t)
	testutil.CreateAccount(t, e.accounts, "Sara", "sara@diplomasi.app", "d1plomacy!Rocks")

	invalid := marchallObj(t, httpErr{Error: auth.ErrInvalidCredentials.Error()})
	body := func(email, pwd string) []byte {
		return marchallObj(t, map[string]string{"email": email, "password": pwd})
	}

	tests := []httpTest{
		{name: "unknown email", body: body("nobody@diplomasi.app", "d1plomacy!Rocks"), wantCode: http.StatusBadRequest, wantData: invalid},
		{name: "wrong password", body: body("sara@diplomasi.app", "wrong-password"), wantCode: http.StatusBadRequest, wantData: invalid},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/auth/login"
	}
	runHTTPTests(t, e, tests)

	t.Run("required fields", func(t *testing.T) {
		rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{}`)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errs map[string]string
		unmarshal(t, rec, &errs)
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})

	t.Run("logged in", func(t *testing.T) {
		rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/auth/login", body: body(" SARA@diplomasi.app", "d1plomacy!Rocks")})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.LoginResponse
		unmarshal(t, rec, &resp)
		require.NotEmpty(t, resp.Token)

		// the token opens the authed endpoints
		rec = e.serve(httpTest{method: http.MethodGet, path: "/v1/auth/me", token: resp.Token})
		require.Equal(t, http.StatusOK, rec.Code)
		var acc auth.Account
		unmarshal(t, rec, &acc)
		assert.Equal(t, "sara@diplomasi.app", acc.Email)
		assert.False(t, acc.LastLogin.IsZero())
	})
}

func Test_authApi_maintenance(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	rec := e.serve(httpTest{
		method: http.MethodPut, path: "/v1/settings", token: token,
		body: marchallObj(t, map[string]bool{"maintenanceMode": true}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	closed := marchallObj(t, httpErr{Error: "the platform is under maintenance"})
	runHTTPTests(t, e, []httpTest{
		{name: "login closed", method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{}`), wantCode: http.StatusServiceUnavailable, wantData: closed},
		{name: "signup closed", method: http.MethodPost, path: "/v1/auth/signup", body: []byte(`{}`), wantCode: http.StatusServiceUnavailable, wantData: closed},
		{name: "authed endpoints still open", path: "/v1/auth/me", token: token},
	})
}

func Test_authApi_signupClosed(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	rec := e.serve(httpTest{
		method: http.MethodPut, path: "/v1/settings", token: token,
		body: marchallObj(t, map[string]bool{"allowSignup": false}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	runHTTPTests(t, e, []httpTest{{
		name: "forbidden", method: http.MethodPost, path: "/v1/auth/signup",
		body: marchallObj(t, map[string]string{
			"name": "Omar", "email": "omar@diplomasi.app", "password": "d1plomacy!Rocks", "confirmPassword": "d1plomacy!Rocks",
		}),
		wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: auth.ErrSignupClosed.Error()}),
	}})
}

func Test_authApi_passwordReset(t *testing.T) {
	e := setup(t)
	testutil.CreateAccount(t, e.accounts, "Sara", "sara@diplomasi.app", "d1plomacy!Rocks")

	success := marchallObj(t, echoapi.SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
	runHTTPTests(t, e, []httpTest{
		{
			name: "unknown email hidden", method: http.MethodPost, path: "/v1/auth/password-reset",
			body: marchallObj(t, map[string]string{"email": "nobody@diplomasi.app"}), wantData: success,
		},
		{
			name: "known email", method: http.MethodPost, path: "/v1/auth/password-reset",
			body: marchallObj(t, map[string]string{"email": "sara@diplomasi.app"}), wantData: success,
		},
		{
			name: "invalid link", method: http.MethodPost, path: "/v1/auth/password-reset-confirm",
			body: marchallObj(t, map[string]string{
				"uid": "bad", "token": "bad", "password": "n3w-Secret!", "confirmPassword": "n3w-Secret!",
			}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: auth.ErrInvalidResetLink.Error()}),
		},
	})

	msgs := e.mailbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "password_reset", msgs[0].TemplateName)
}

func Test_authApi_refreshToken(t *testing.T) {
	e := setup(t)
	acc := testutil.CreateAccount(t, e.accounts, "Sara", "sara@diplomasi.app", "d1plomacy!Rocks")

	now := time.Now()
	unrefreshableClaims := echoapi.NewClaims(e.conf, auth.NewSession(acc), now.Add(-2*e.conf.Server.JWTRefreshExpirationDelta).Unix())
	unrefreshableToken, err := echoapi.GenerateToken(e.conf, unrefreshableClaims)
	require.NoError(t, err)

	ghost := auth.Session{AccountID: "ghost", Name: "Ghost", Email: "ghost@diplomasi.app"}
	ghostToken, err := echoapi.GenerateToken(e.conf, echoapi.NewClaims(e.conf, ghost))
	require.NoError(t, err)

	expired := echoapi.NewClaims(e.conf, auth.NewSession(acc))
	expired.ExpiresAt = now.Add(-time.Minute).Unix()
	expiredToken, err := echoapi.GenerateToken(e.conf, expired)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Expired token", token: expiredToken, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"})},
		{name: "Unknown account", token: ghostToken, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "account not authenticated"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/auth/token-refresh"
	}
	runHTTPTests(t, e, tests)

	t.Run("Token refreshed", func(t *testing.T) {
		origIat := now.Add(-time.Minute).Unix()
		token, err := echoapi.GenerateToken(e.conf, echoapi.NewClaims(e.conf, auth.NewSession(acc), origIat))
		require.NoError(t, err)

		rec := e.serve(httpTest{method: http.MethodPost, path: "/v1/auth/token-refresh", token: token})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.LoginResponse
		unmarshal(t, rec, &resp)
		claims := new(echoapi.Claims)
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(e.conf.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, origIat, claims.OrigIssuedAt)
		assert.Equal(t, acc.ID, claims.Subject)
	})
}

func Test_authApi_setTheme(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	req, rec := newRequest(http.MethodPut, "/v1/auth/me/theme", marchallObj(t, map[string]string{"theme": "dark"}))
	e.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	runHTTPTests(t, e, []httpTest{{
		name: "unknown theme", method: http.MethodPut, path: "/v1/auth/me/theme", token: token,
		body: marchallObj(t, map[string]string{"theme": "neon"}), wantCode: http.StatusBadRequest,
	}})

	rec = e.serve(httpTest{
		method: http.MethodPut, path: "/v1/auth/me/theme", token: token,
		body: marchallObj(t, map[string]string{"theme": " Dark "}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp echoapi.LoginResponse
	unmarshal(t, rec, &resp)
	assert.Equal(t, auth.ThemeDark, resp.Session.Theme)
}
