package models

import (
	"strings"
	"time"

	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

// MaxNameLength bounds group names. Long enough for any department label,
// short enough to render in the dashboard sidebar.
const MaxNameLength = 200

// Group is an organizational unit passports belong to. Names are free-form
// and need not be unique; two departments may legitimately share a label.
type Group struct {
	ID        id.GroupID  `json:"id"`
	Name      string      `json:"name"`
	CreatedBy *id.AdminID `json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewGroup constructs a group with a validated name.
func NewGroup(groupID id.GroupID, name string, createdBy id.AdminID, now time.Time) (*Group, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	g := &Group{
		ID:        groupID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !createdBy.IsNil() {
		g.CreatedBy = &createdBy
	}
	return g, nil
}

// Rename replaces the group's name. Renaming to the current name is allowed
// and still bumps UpdatedAt; the audit trail records the attempt either way.
func (g *Group) Rename(name string, now time.Time) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	g.Name = name
	g.UpdatedAt = now
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "group name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return "", dErrors.Newf(dErrors.CodeValidation, "group name cannot exceed %d bytes", MaxNameLength)
	}
	return name, nil
}
