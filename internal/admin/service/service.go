// Package service owns the admin account lifecycle: accounts appear on first
// authentication, refresh their profile on re-authentication, and are
// activated or deactivated by a main admin. Accounts are never hard-deleted.
package service

import (
	"context"
	"errors"

	"passreg/internal/activity"
	"passreg/internal/admin/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/sentinel"
	"passreg/pkg/requestcontext"
)

// Store persists admin accounts. Execute runs validate-then-mutate while
// holding the row lock (mutex or FOR UPDATE).
type Store interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	Execute(ctx context.Context, adminID id.AdminID, validate func(*models.Admin) error, apply func(*models.Admin)) (*models.Admin, error)
	CountActiveMainAdmins(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// Service orchestrates admin account operations.
type Service struct {
	admins   Store
	activity *activity.Publisher
}

func New(admins Store, publisher *activity.Publisher) *Service {
	return &Service{admins: admins, activity: publisher}
}

// Ensure looks up the account for an authenticated identity, creating it on
// first authentication and refreshing profile fields on re-authentication.
// The very first account in an empty registry becomes the main admin.
func (s *Service) Ensure(ctx context.Context, email, name, photoURL string) (*models.Admin, error) {
	now := requestcontext.Now(ctx)

	admin, err := s.admins.FindByEmail(ctx, email)
	switch {
	case err == nil:
		before := admin.UpdatedAt
		admin.ApplyProfile(name, photoURL, now)
		if !admin.UpdatedAt.Equal(before) {
			if err := s.admins.Update(ctx, admin); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to refresh admin profile")
			}
		}
		return admin, nil

	case errors.Is(err, sentinel.ErrNotFound):
		total, err := s.admins.Count(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count admins")
		}
		admin, err := models.NewAdmin(id.NewAdminID(), email, name, total == 0, now)
		if err != nil {
			return nil, err
		}
		admin.PhotoURL = photoURL
		if err := s.admins.Create(ctx, admin); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin")
		}
		return admin, nil

	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up admin")
	}
}

// FindByID exposes account lookup for the activity read side.
func (s *Service) FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error) {
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "admin not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up admin")
	}
	return admin, nil
}

// List returns all admin accounts, oldest first.
func (s *Service) List(ctx context.Context) ([]*models.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list admins")
	}
	return admins, nil
}

// SetActive toggles an account's activation state. Deactivating the last
// active main admin is refused: the registry must never lock itself out.
func (s *Service) SetActive(ctx context.Context, target id.AdminID, active bool, performedBy id.AdminID) (*models.Admin, error) {
	if target.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "admin id is required")
	}

	if !active {
		current, err := s.admins.FindByID(ctx, target)
		if err == nil && current.IsMainAdmin && current.IsActive {
			mains, err := s.admins.CountActiveMainAdmins(ctx)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count main admins")
			}
			if mains <= 1 {
				return nil, dErrors.New(dErrors.CodeConflict, "cannot deactivate the last active main admin")
			}
		}
	}

	now := requestcontext.Now(ctx)
	admin, err := s.admins.Execute(ctx, target,
		func(a *models.Admin) error {
			return a.CanSetActive(active)
		},
		func(a *models.Admin) {
			a.ApplySetActive(active, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "admin not found")
		}
		return nil, err
	}

	action := activity.ActionAdminDeactivated
	if active {
		action = activity.ActionAdminActivated
	}
	s.activity.Log(ctx, action, activity.EntityAdmin, admin.ID.String(), &performedBy, map[string]any{
		"email": admin.Email,
	})

	return admin, nil
}
