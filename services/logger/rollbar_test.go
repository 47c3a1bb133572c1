package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
)

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(new(bytes.Buffer), "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)

	err := errors.New("boom")
	extra := map[string]interface{}{"path": "/api/courses"}
	sess := auth.Session{AccountID: "acc-1", Name: "Sara", Email: "sara@example.com"}

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{"no args", nil, []interface{}{"msg"}},
		{"error & extras", []interface{}{err, extra}, []interface{}{"msg", err, extra}},
		{"session is dropped", []interface{}{err, sess}, []interface{}{"msg", err}},
		{"session pointer is dropped", []interface{}{&sess, extra}, []interface{}{"msg", extra}},
		{"nil session pointer is kept", []interface{}{(*auth.Session)(nil)}, []interface{}{"msg", (*auth.Session)(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.prepare("msg", tt.args))
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(log.New(buf, "API : ", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)

	logger.Info("server started", map[string]string{"addr": ":8000"})
	assert.Contains(t, buf.String(), "API : server started")
	assert.Contains(t, buf.String(), "addr::8000")
}
