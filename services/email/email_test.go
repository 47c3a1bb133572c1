package emailsvc

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diplomasi/admin/core"
)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Fatal(string, ...interface{}) {}
func (l *recordingLogger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func testConf() *core.Config {
	return &core.Config{AppName: "Diplomasi", SendgridApiKey: "sg-key"}
}

func TestConsoleServiceMock(t *testing.T) {
	ClearOutbox()
	svc := NewConsoleServiceMock(testConf())

	svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "Sara", Address: "sara@example.com"}},
			Subject: "Hello",
			BodyStr: "مرحبا",
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "empty@example.com"}}, Subject: "no content"},
	)

	sent := SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Hello", sent[0].Subject)
	assert.Equal(t, "مرحبا", sent[0].TextContent)

	ClearOutbox()
	assert.Empty(t, SentMessages())
}

func TestSendgridService_send(t *testing.T) {
	var (
		gotPath, gotAuth string
		gotBody          map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := ioutil.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	logger := new(recordingLogger)
	svc := newSendgridService(testConf(), logger, srv.URL)
	svc.send(core.EmailMessage{
		To:          []mail.Address{{Name: "Sara", Address: "sara@example.com"}},
		Subject:     "Password Reset",
		TextContent: "reset it",
		HTMLContent: "<p>reset it</p>",
	})

	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer sg-key", gotAuth)
	require.NotNil(t, gotBody)
	pers := gotBody["personalizations"].([]interface{})
	require.Len(t, pers, 1)
	assert.Equal(t, "[Diplomasi] Password Reset", pers[0].(map[string]interface{})["subject"])
	assert.Len(t, gotBody["content"], 2)
	assert.Empty(t, logger.errors)
}

func TestSendgridService_sendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	logger := new(recordingLogger)
	svc := newSendgridService(testConf(), logger, srv.URL)
	svc.send(core.EmailMessage{
		To:          []mail.Address{{Address: "sara@example.com"}},
		Subject:     "Hi",
		TextContent: "hi",
	})

	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0], "status: 401")
}
