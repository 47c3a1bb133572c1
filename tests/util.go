package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/form"
	"github.com/diplomasi/admin/core/user"
)

// NewValidator returns a validator and its translator with every custom validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)
	return validate, translator
}

func NewReducer() *form.Reducer {
	return form.NewReducer(NewValidator())
}

func CreateAccount(t *testing.T, repo auth.AccountRepository, name, email, pwd string) auth.Account {
	now := time.Now().UTC()
	acc := auth.Account{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Theme:     auth.ThemeSystem,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := acc.SetPassword(pwd); err != nil {
			t.Fatalf("createAccount() failed: %v", err)
		}
	}
	acc, err := repo.CreateAccount(context.Background(), acc)
	if err != nil {
		t.Fatalf("createAccount() failed: %v", err)
	}
	return acc
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, role, status string,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr, err := repo.CreateUser(context.Background(), user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// Mailbox is a core.EmailService keeping the messages it is given, unrendered.
type Mailbox struct {
	mu       sync.Mutex
	messages []core.EmailMessage
}

var _ core.EmailService = (*Mailbox)(nil)

func (mb *Mailbox) SendMessages(messages ...*core.EmailMessage) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for _, msg := range messages {
		mb.messages = append(mb.messages, *msg)
	}
}

func (mb *Mailbox) Messages() []core.EmailMessage {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return append([]core.EmailMessage(nil), mb.messages...)
}

// NopLogger discards every log entry.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
