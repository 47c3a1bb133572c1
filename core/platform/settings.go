// Package platform holds the site-wide settings edited on the settings page.
package platform

import (
	"context"
	"time"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/form"
)

type Settings struct {
	SiteName        string    `json:"siteName"`
	Description     string    `json:"description"`
	ContactEmail    string    `json:"contactEmail"`
	MaintenanceMode bool      `json:"maintenanceMode"`
	AllowSignup     bool      `json:"allowSignup"`
	UpdatedAt       time.Time `json:"updatedAt"` // UTC
}

// DefaultSettings are the settings of a fresh platform.
var DefaultSettings = Settings{
	SiteName:     "Diplomasi",
	Description:  "منصة تعليمية متخصصة في مهارات الدبلوماسية والتفاوض",
	ContactEmail: "support@diplomasi.app",
	AllowSignup:  true,
}

// SettingsData is the payload of the settings form.
type SettingsData struct {
	SiteName        string `json:"siteName" validate:"required,min=2"`
	Description     string `json:"description"`
	ContactEmail    string `json:"contactEmail" validate:"required,email"`
	MaintenanceMode bool   `json:"maintenanceMode"`
	AllowSignup     bool   `json:"allowSignup"`
}

var Defaults = form.Values{"allowSignup": true, "maintenanceMode": false}

func (sd *SettingsData) Clean() {
	sd.SiteName = core.CleanString(sd.SiteName)
	sd.Description = core.CleanString(sd.Description)
	sd.ContactEmail = core.CleanString(sd.ContactEmail, true /* lower */)
}

type (
	Repository interface {
		GetSettings(ctx context.Context) (Settings, error)
		SaveSettings(ctx context.Context, s Settings) (Settings, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context) (Settings, error) {
	return svc.repo.GetSettings(ctx)
}

func (svc *Service) Update(ctx context.Context, sd SettingsData) (Settings, error) {
	return svc.repo.SaveSettings(ctx, Settings{
		SiteName:        sd.SiteName,
		Description:     sd.Description,
		ContactEmail:    sd.ContactEmail,
		MaintenanceMode: sd.MaintenanceMode,
		AllowSignup:     sd.AllowSignup,
		UpdatedAt:       time.Now().UTC(),
	})
}

// InMaintenance reports whether the platform is closed to its public auth endpoints.
func (svc *Service) InMaintenance(ctx context.Context) (bool, error) {
	s, err := svc.repo.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return s.MaintenanceMode, nil
}

func (svc *Service) SignupAllowed(ctx context.Context) (bool, error) {
	s, err := svc.repo.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return s.AllowSignup, nil
}
