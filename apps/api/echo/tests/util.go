package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/diplomasi/admin/apps/api/echo"
	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/dashboard"
	"github.com/diplomasi/admin/core/platform"
	"github.com/diplomasi/admin/core/user"
	dummydb "github.com/diplomasi/admin/storage/database/dummy"
	"github.com/diplomasi/admin/storage/fixtures"
	testutil "github.com/diplomasi/admin/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type env struct {
	app      *echoapi.Server
	conf     *core.Config
	accounts auth.AccountRepository
	mailbox  *testutil.Mailbox
}

func setup(t *testing.T) env {
	conf := &core.Config{
		AppName:                   "Diplomasi",
		TestMode:                  true,
		SecretKey:                 "test-secret",
		FrontendBaseURL:           "http://localhost:3000",
		PasswordResetTimeoutDelta: time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
		},
	}

	// set up data source & repos
	src, err := fixtures.NewSource(0)
	require.NoError(t, err)
	db, err := dummydb.Open()
	require.NoError(t, err)
	require.NoError(t, db.Load(context.Background(), src))
	accounts := dummydb.NewAccountRepository(db)

	// set up services
	mailbox := new(testutil.Mailbox)
	settingsSvc := platform.NewService(dummydb.NewSettingsRepository(db))
	courseSvc := course.NewService(dummydb.NewCourseRepository(db))
	catalogSvc := catalog.NewService(src)
	validate, translator := testutil.NewValidator()

	// set up server
	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         testutil.NopLogger{},
		AuthSvc:        auth.NewService(accounts, settingsSvc, mailbox, conf),
		CourseSvc:      courseSvc,
		CatalogSvc:     catalogSvc,
		UserSvc:        user.NewService(dummydb.NewUserRepository(db)),
		DashboardSvc:   dashboard.NewService(src, courseSvc, catalogSvc),
		SettingsSvc:    settingsSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	t.Cleanup(func() {
		_ = app.Shutdown(context.Background())
	})

	return env{app: app, conf: conf, accounts: accounts, mailbox: mailbox}
}

func (e env) getToken(t *testing.T, acc auth.Account) string {
	token, err := echoapi.GenerateToken(e.conf, echoapi.NewClaims(e.conf, auth.NewSession(acc)))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// adminToken creates an account and returns a session token for it.
func (e env) adminToken(t *testing.T) string {
	return e.getToken(t, testutil.CreateAccount(t, e.accounts, "Admin", "admin@diplomasi.app", "d1plomacy!Rocks"))
}

func (e env) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	e.app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, e env, tests []httpTest) {
	for _, tt := range tests {
		tt := tt
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, e.serve(tt))
		})
	}
}
