package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/form"
	"github.com/diplomasi/admin/core/platform"
	dummydb "github.com/diplomasi/admin/storage/database/dummy"
	testutil "github.com/diplomasi/admin/tests"
)

type env struct {
	svc      *auth.Service
	repo     auth.AccountRepository
	settings *platform.Service
	mailbox  *testutil.Mailbox
}

func newEnv(t *testing.T) env {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewAccountRepository(db)
	settings := platform.NewService(dummydb.NewSettingsRepository(db))
	mailbox := new(testutil.Mailbox)
	conf := &core.Config{SecretKey: "secret", PasswordResetTimeoutDelta: 24 * time.Hour}
	return env{
		svc:      auth.NewService(repo, settings, mailbox, conf),
		repo:     repo,
		settings: settings,
		mailbox:  mailbox,
	}
}

func submitSignup(t *testing.T, values form.Values) (auth.SignupData, error) {
	state, err := form.New(nil, nil)
	require.NoError(t, err)
	var sd auth.SignupData
	_, err = testutil.NewReducer().Submit(state, values, &sd)
	return sd, err
}

func TestSignupForm(t *testing.T) {
	tests := []struct {
		name    string
		values  form.Values
		wantErr map[string]string
	}{
		{
			name: "valid",
			values: form.Values{
				"name": "Sara Ali", "email": " Sara@Example.com ",
				"password": "d1plomacy!Rocks", "confirmPassword": "d1plomacy!Rocks",
			},
		},
		{
			name: "password mismatch blocks submission",
			values: form.Values{
				"name": "Sara Ali", "email": "sara@example.com",
				"password": "d1plomacy!Rocks", "confirmPassword": "d1plomacy!Rock",
			},
			wantErr: map[string]string{"confirmPassword": "passwords do not match"},
		},
		{
			name: "password too similar to the email",
			values: form.Values{
				"name": "Sara Ali", "email": "saraali2024@example.com",
				"password": "saraali2024", "confirmPassword": "saraali2024",
			},
			wantErr: map[string]string{"password": "password is too similar to your name or email"},
		},
		{
			name: "name and password too short",
			values: form.Values{
				"name": "S", "email": "sara@example.com",
				"password": "k9#pz", "confirmPassword": "k9#pz",
			},
			wantErr: map[string]string{
				"name":     "name must be at least 2 characters in length",
				"password": "password must be at least 8 characters in length",
			},
		},
		{
			name: "invalid email",
			values: form.Values{
				"name": "Sara Ali", "email": "sara.example.com",
				"password": "d1plomacy!Rocks", "confirmPassword": "d1plomacy!Rocks",
			},
			wantErr: map[string]string{"email": "email must be a valid email address"},
		},
		{
			name:   "required fields",
			values: form.Values{},
			wantErr: map[string]string{
				"name":            "this field is required",
				"email":           "this field is required",
				"password":        "this field is required",
				"confirmPassword": "this field is required",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd, err := submitSignup(t, tt.values)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "sara@example.com", sd.Email)
				return
			}
			require.Error(t, err)
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr, vErr.FieldMap())
		})
	}
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sd := auth.SignupData{Name: "Sara Ali", Email: "sara@example.com", Password: "d1plomacy!Rocks"}

	acc, err := e.svc.Signup(ctx, sd)
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, auth.ThemeSystem, acc.Theme)
	assert.NoError(t, acc.CheckPassword("d1plomacy!Rocks"))

	_, err = e.svc.Signup(ctx, sd)
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"email": auth.ErrEmailExists.Error()}, vErr.FieldMap())

	_, err = e.settings.Update(ctx, platform.SettingsData{
		SiteName: "Diplomasi", ContactEmail: "support@diplomasi.app", AllowSignup: false,
	})
	require.NoError(t, err)
	sd.Email = "other@example.com"
	_, err = e.svc.Signup(ctx, sd)
	assert.Equal(t, auth.ErrSignupClosed, err)

	// operators can still be created from the admin CLI
	_, err = e.svc.CreateAccount(ctx, sd)
	assert.NoError(t, err)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	testutil.CreateAccount(t, e.repo, "Sara Ali", "sara@example.com", "d1plomacy!Rocks")

	tests := []struct {
		name    string
		data    auth.LoginData
		wantErr error
	}{
		{"valid", auth.LoginData{Email: "sara@example.com", Password: "d1plomacy!Rocks"}, nil},
		{"wrong password", auth.LoginData{Email: "sara@example.com", Password: "nope"}, auth.ErrInvalidCredentials},
		{"unknown email", auth.LoginData{Email: "nobody@example.com", Password: "d1plomacy!Rocks"}, auth.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := e.svc.Login(ctx, tt.data)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, acc.LastLogin.IsZero())
		})
	}
}

func TestService_SetTheme(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	acc := testutil.CreateAccount(t, e.repo, "Sara Ali", "sara@example.com", "d1plomacy!Rocks")

	acc, err := e.svc.SetTheme(ctx, acc.ID, auth.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, auth.ThemeDark, acc.Theme)
	assert.Equal(t, auth.ThemeDark, auth.NewSession(acc).Theme)

	_, err = e.svc.SetTheme(ctx, "nope", auth.ThemeDark)
	assert.Equal(t, auth.ErrNotFound, err)
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	acc := testutil.CreateAccount(t, e.repo, "Sara Ali", "sara@example.com", "d1plomacy!Rocks")

	assert.Equal(t, auth.ErrNotFound, e.svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Empty(t, e.mailbox.Messages())

	require.NoError(t, e.svc.RequestPasswordReset(ctx, " SARA@example.com"))
	msgs := e.mailbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "password_reset", msgs[0].TemplateName)
	assert.Equal(t, "sara@example.com", msgs[0].To[0].Address)
	data := msgs[0].TemplateData.(map[string]string)
	assert.Equal(t, auth.EncodeUID(acc), data["UID"])

	t.Run("invalid link", func(t *testing.T) {
		for _, rd := range []auth.ResetPasswordData{
			{UID: "%%%", Token: data["Token"], Password: "n3w-Passphrase"},
			{UID: auth.EncodeUID(auth.Account{ID: "nope"}), Token: data["Token"], Password: "n3w-Passphrase"},
			{UID: data["UID"], Token: "bad-token", Password: "n3w-Passphrase"},
		} {
			err := e.svc.ResetPassword(ctx, rd)
			require.Error(t, err)
			assert.True(t, core.IsValidationError(err))
			assert.Equal(t, auth.ErrInvalidResetLink.Error(), err.Error())
		}
	})

	t.Run("too similar", func(t *testing.T) {
		err := e.svc.ResetPassword(ctx, auth.ResetPasswordData{UID: data["UID"], Token: data["Token"], Password: "sara@example"})
		require.Error(t, err)
		vErr := err.(*core.ValidationError)
		assert.Equal(t, map[string]string{"password": auth.ErrPasswordTooSimilar.Error()}, vErr.FieldMap())
	})

	t.Run("valid link", func(t *testing.T) {
		err := e.svc.ResetPassword(ctx, auth.ResetPasswordData{UID: data["UID"], Token: data["Token"], Password: "n3w-Passphrase"})
		require.NoError(t, err)

		_, err = e.svc.Login(ctx, auth.LoginData{Email: "sara@example.com", Password: "n3w-Passphrase"})
		assert.NoError(t, err)
	})

	t.Run("link is single use", func(t *testing.T) {
		err := e.svc.ResetPassword(ctx, auth.ResetPasswordData{UID: data["UID"], Token: data["Token"], Password: "an0ther-Passphrase"})
		assert.True(t, core.IsValidationError(err))
	})
}
