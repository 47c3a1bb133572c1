package auth

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/diplomasi/admin/core"
)

var (
	// errors
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignupClosed       = errors.New("signup is closed")
	ErrInvalidResetLink   = errors.New("the password reset link is invalid or has expired")
	ErrPasswordTooSimilar = errors.New(pwdAttrSimText)
)

type (
	AccountRepository interface {
		CreateAccount(ctx context.Context, acc Account) (Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		UpdateAccount(ctx context.Context, acc Account) (Account, error)
	}

	// SignupPolicy tells whether new accounts may register themselves.
	SignupPolicy interface {
		SignupAllowed(ctx context.Context) (bool, error)
	}

	Service struct {
		repo    AccountRepository
		policy  SignupPolicy
		mailSvc core.EmailService
		tokens  tokenGenerator
	}

	// Session is the signed-in account as carried by the session token.
	Session struct {
		AccountID string `json:"accountId"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Theme     string `json:"theme"`
	}
)

func NewService(repo AccountRepository, policy SignupPolicy, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		policy:  policy,
		mailSvc: mailSvc,
		tokens:  tokenGenerator{secretKey: conf.SecretKey, timeout: conf.PasswordResetTimeoutDelta},
	}
}

func NewSession(acc Account) Session {
	return Session{AccountID: acc.ID, Name: acc.Name, Email: acc.Email, Theme: acc.Theme}
}

// Signup registers a new account when the platform allows it.
func (svc *Service) Signup(ctx context.Context, sd SignupData) (Account, error) {
	allowed, err := svc.policy.SignupAllowed(ctx)
	if err != nil {
		return Account{}, err
	}
	if !allowed {
		return Account{}, ErrSignupClosed
	}
	return svc.CreateAccount(ctx, sd)
}

// CreateAccount registers a new account regardless of the signup policy.
func (svc *Service) CreateAccount(ctx context.Context, sd SignupData) (Account, error) {
	if _, err := svc.repo.GetAccountByEmail(ctx, sd.Email); err == nil {
		return Account{}, core.NewFieldValidationError("email", ErrEmailExists)
	} else if err != ErrNotFound {
		return Account{}, err
	}

	now := time.Now().UTC()
	acc := Account{
		ID:        uuid.New().String(),
		Name:      sd.Name,
		Email:     sd.Email,
		Theme:     ThemeSystem,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acc.SetPassword(sd.Password); err != nil {
		return Account{}, err
	}
	return svc.repo.CreateAccount(ctx, acc)
}

// Login checks the credentials and records the login time.
func (svc *Service) Login(ctx context.Context, ld LoginData) (Account, error) {
	acc, err := svc.repo.GetAccountByEmail(ctx, ld.Email)
	if err != nil {
		if err == ErrNotFound {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if err = acc.CheckPassword(ld.Password); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	acc.LastLogin = time.Now().UTC()
	return svc.repo.UpdateAccount(ctx, acc)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	return svc.repo.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) SetTheme(ctx context.Context, id, theme string) (Account, error) {
	acc, err := svc.repo.GetAccountByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	acc.Theme = theme
	acc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAccount(ctx, acc)
}

// RequestPasswordReset emails a password reset link to the owner of email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := svc.tokens.makeToken(acc)
	if err != nil {
		return err
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: acc.Name, Address: acc.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: map[string]string{
			"Name":  acc.Name,
			"UID":   EncodeUID(acc),
			"Token": token,
		},
	})
	return nil
}

// ResetPassword sets a new password given a valid reset link (uid + token).
func (svc *Service) ResetPassword(ctx context.Context, rd ResetPasswordData) error {
	id, err := decodeUID(rd.UID)
	if err != nil {
		return core.NewValidationError(ErrInvalidResetLink)
	}
	acc, err := svc.repo.GetAccountByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(ErrInvalidResetLink)
		}
		return err
	}
	if err = svc.tokens.verifyToken(acc, rd.Token); err != nil {
		return core.NewValidationError(ErrInvalidResetLink)
	}
	return svc.setPassword(ctx, acc, rd.Password)
}

// SetPassword sets the password of the account owning email.
func (svc *Service) SetPassword(ctx context.Context, email, pwd string) error {
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return svc.setPassword(ctx, acc, pwd)
}

func (svc *Service) setPassword(ctx context.Context, acc Account, pwd string) error {
	if tooSimilar(pwd, acc.Name, acc.Email) {
		return core.NewFieldValidationError("password", ErrPasswordTooSimilar)
	}
	if err := acc.SetPassword(pwd); err != nil {
		return err
	}
	acc.UpdatedAt = time.Now().UTC()
	_, err := svc.repo.UpdateAccount(ctx, acc)
	return err
}
