package sqlxrepos

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/diplomasi/admin/core/auth"
)

func TestAccountRow(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		acc  auth.Account
	}{
		{
			name: "never logged in",
			acc: auth.Account{
				ID: "1", Name: "Sara", Email: "sara@diplomasi.app", Theme: auth.ThemeSystem,
				PasswordHash: []byte("hash"), CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name: "logged in",
			acc: auth.Account{
				ID: "2", Name: "Omar", Email: "omar@diplomasi.app", Theme: auth.ThemeDark,
				PasswordHash: []byte("hash"), CreatedAt: now, UpdatedAt: now, LastLogin: now.Add(time.Hour),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := newAccountRow(tt.acc)
			assert.Equal(t, !tt.acc.LastLogin.IsZero(), row.LastLogin.Valid)
			assert.Equal(t, tt.acc, row.account())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.Wrap(&pq.Error{Code: "23505"}, "inserting account")))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
