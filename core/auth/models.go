package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/diplomasi/admin/core"
)

// Themes
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Account is a dashboard operator able to sign in.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Theme        string    `json:"theme"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
	LastLogin    time.Time `json:"lastLogin"` // UTC
}

func (acc *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = hash
	return nil
}

func (acc *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(pwd))
}

// SignupData is the payload of the signup page.
type SignupData struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (sd *SignupData) Clean() {
	sd.Name = core.CleanString(sd.Name)
	sd.Email = core.CleanString(sd.Email, true /* lower */)
}

// LoginData only requires both fields; credentials are checked by the service.
type LoginData struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (ld *LoginData) Clean() {
	ld.Email = core.CleanString(ld.Email, true /* lower */)
}

type ForgotPasswordData struct {
	Email string `json:"email" validate:"required,email"`
}

func (fd *ForgotPasswordData) Clean() {
	fd.Email = core.CleanString(fd.Email, true /* lower */)
}

type ResetPasswordData struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (rd *ResetPasswordData) Clean() {
	rd.UID = core.CleanString(rd.UID)
	rd.Token = core.CleanString(rd.Token)
}

type ThemeData struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

func (td *ThemeData) Clean() {
	td.Theme = core.CleanString(td.Theme, true /* lower */)
}
