package user

import (
	"time"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/form"
)

// Roles
const (
	RoleLearner  = "learner"
	RoleManager  = "manager"
	RoleReviewer = "reviewer"
	RoleSupport  = "support"
)

// Statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

var (
	AllRoles    = []string{RoleLearner, RoleManager, RoleReviewer, RoleSupport}
	AllStatuses = []string{StatusActive, StatusInactive, StatusSuspended}
)

// User is a member of the platform, as listed on the users page.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

var _ catalog.Record = User{}

func (u User) SearchFields() []string { return []string{u.Name, u.Email} }

func (u User) FilterValues() map[string]string {
	return map[string]string{"role": u.Role, "status": u.Status}
}

func (u User) Field(name string) (interface{}, bool) {
	switch name {
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "createdAt":
		return u.CreatedAt.Format(time.RFC3339), true
	}
	return nil, false
}

// UserData is the payload of the user dialog.
type UserData struct {
	Name   string `json:"name" validate:"required,min=2"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"omitempty,e164"`
	Role   string `json:"role" validate:"required,oneof=learner manager reviewer support"`
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

var Defaults = form.Values{"role": RoleLearner, "status": StatusActive}

func (ud *UserData) Clean() {
	ud.Name = core.CleanString(ud.Name)
	ud.Email = core.CleanString(ud.Email, true /* lower */)
	ud.Phone = core.CleanString(ud.Phone)
	ud.Role = core.CleanString(ud.Role, true /* lower */)
	ud.Status = core.CleanString(ud.Status, true /* lower */)
}
