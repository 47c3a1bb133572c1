package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/catalog"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when another user than excludedID owns email.
		CheckEmailUniqueness(ctx context.Context, email, excludedID string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, email, excludedID string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, excludedID); err != nil {
		if err == ErrEmailExists {
			return core.NewFieldValidationError("email", err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ud UserData) (User, error) {
	if err := svc.checkUniqueness(ctx, ud.Email, ""); err != nil {
		return User{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateUser(ctx, User{
		ID:        uuid.New().String(),
		Name:      ud.Name,
		Email:     ud.Email,
		Phone:     ud.Phone,
		Role:      ud.Role,
		Status:    ud.Status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

// Query returns the users table: search matches the name or email, filters are "role" and "status".
func (svc *Service) Query(ctx context.Context, q catalog.Query) (catalog.Result, error) {
	users, err := svc.repo.QueryAllUsers(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	records := make([]catalog.Record, 0, len(users))
	for _, usr := range users {
		records = append(records, usr)
	}
	return catalog.Apply(catalog.Users, q, records), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, ud UserData) (User, error) {
	if err := svc.checkUniqueness(ctx, ud.Email, id); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUser(ctx, User{
		ID:        id,
		Name:      ud.Name,
		Email:     ud.Email,
		Phone:     ud.Phone,
		Role:      ud.Role,
		Status:    ud.Status,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

// Import stores users as they are, keeping their ids and timestamps.
func (svc *Service) Import(ctx context.Context, users ...User) error {
	for _, usr := range users {
		if _, err := svc.repo.CreateUser(ctx, usr); err != nil {
			return err
		}
	}
	return nil
}
