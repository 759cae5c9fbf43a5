package models

import (
	"strings"
	"time"

	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

// Admin is a dashboard administrator account.
//
// Invariants:
//   - Email is non-empty and stored lowercase
//   - Accounts are never hard-deleted; deactivation is the only removal
//   - The last active main admin cannot be deactivated (service-enforced;
//     the data model itself permits zero or many main admins)
type Admin struct {
	ID          id.AdminID `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	IsMainAdmin bool       `json:"is_main_admin"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewAdmin constructs an active admin account. Invoked on an identity's
// first authentication.
func NewAdmin(adminID id.AdminID, email, name string, mainAdmin bool, now time.Time) (*Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "admin email cannot be empty")
	}
	return &Admin{
		ID:          adminID,
		Email:       email,
		Name:        strings.TrimSpace(name),
		IsMainAdmin: mainAdmin,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanSetActive checks whether the account can transition to the requested
// activation state. Use with ApplySetActive in Execute callbacks.
func (a *Admin) CanSetActive(active bool) error {
	if a.IsActive == active {
		if active {
			return dErrors.New(dErrors.CodeConflict, "admin is already active")
		}
		return dErrors.New(dErrors.CodeConflict, "admin is already inactive")
	}
	return nil
}

// ApplySetActive transitions the activation state. Call CanSetActive first.
func (a *Admin) ApplySetActive(active bool, now time.Time) {
	a.IsActive = active
	a.UpdatedAt = now
}

// ApplyProfile refreshes the mutable profile fields on re-authentication.
func (a *Admin) ApplyProfile(name, photoURL string, now time.Time) {
	changed := false
	if name = strings.TrimSpace(name); name != "" && name != a.Name {
		a.Name = name
		changed = true
	}
	if photoURL != "" && photoURL != a.PhotoURL {
		a.PhotoURL = photoURL
		changed = true
	}
	if changed {
		a.UpdatedAt = now
	}
}
