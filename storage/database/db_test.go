package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core"
)

func TestDSN(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:        "postgres",
		Host:          "db.local",
		Port:          5433,
		Name:          "diplomasi",
		User:          "app",
		Password:      "s3cret",
		AdminUser:     "postgres",
		AdminPassword: "r00t",
		DisableTLS:    true,
	}}

	tests := []struct {
		name     string
		dbName   string
		admin    bool
		wantUser string
		wantPwd  string
		wantSSL  string
	}{
		{"app user", "diplomasi", false, "app", "s3cret", "disable"},
		{"admin user", "postgres", true, "postgres", "r00t", "disable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(DSN(tt.dbName, tt.admin, conf))
			require.NoError(t, err)
			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, "db.local:5433", u.Host)
			assert.Equal(t, "/"+tt.dbName, u.Path)
			assert.Equal(t, tt.wantUser, u.User.Username())
			pwd, _ := u.User.Password()
			assert.Equal(t, tt.wantPwd, pwd)
			assert.Equal(t, tt.wantSSL, u.Query().Get("sslmode"))
			assert.Equal(t, "utc", u.Query().Get("timezone"))
		})
	}

	conf.Database.DisableTLS = false
	conf.Database.AdminUser = ""
	u, _ := url.Parse(DSN("postgres", true, conf))
	assert.Equal(t, "require", u.Query().Get("sslmode"))
	assert.Equal(t, "app", u.User.Username())
}
