// Package models defines the passport record and its inputs. Update input
// deliberately has no public id, QR URL, creator, or creation timestamp
// fields; those are immutable after creation and cannot be smuggled in
// through an update payload.
package models

import (
	"strings"
	"time"

	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

// Person is a passport record. Status is the validity flag: true means
// active, false means expired or revoked. The true to false transition
// happens automatically on expiration or by admin action; false to true
// only by explicit admin reactivation.
type Person struct {
	ID             id.PersonID `json:"id"`
	PublicID       id.PublicID `json:"public_id"`
	FullName       string      `json:"full_name"`
	BirthDate      time.Time   `json:"birth_date"`
	PassportNumber string      `json:"passport_number"`
	ExpiresAt      time.Time   `json:"expires_at"`
	Notes          string      `json:"notes,omitempty"`
	GroupID        id.GroupID  `json:"group_id"`
	Status         bool        `json:"status"`
	PhotoURL       string      `json:"photo_url,omitempty"`
	QRCodeURL      string      `json:"qr_code_url,omitempty"`
	CreatedBy      *id.AdminID `json:"created_by,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// PhotoUpload carries raw uploaded photo bytes into the lifecycle service.
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// CreateInput holds the admin-supplied fields of a new passport.
type CreateInput struct {
	FullName       string
	BirthDate      time.Time
	PassportNumber string
	ExpiresAt      time.Time
	Notes          string
	GroupID        id.GroupID
	Status         bool
	Photo          *PhotoUpload
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.FullName) == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if in.BirthDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "birth_date is required")
	}
	if strings.TrimSpace(in.PassportNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "passport_number is required")
	}
	if in.ExpiresAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "expires_at is required")
	}
	if in.GroupID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "group_id is required")
	}
	return nil
}

// NewPerson constructs a validated passport record. The public id is
// supplied by the caller because its generation can fail; the record is
// never built with an empty one.
func NewPerson(personID id.PersonID, publicID id.PublicID, in CreateInput, createdBy id.AdminID, now time.Time) (*Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Person{
		ID:             personID,
		PublicID:       publicID,
		FullName:       strings.TrimSpace(in.FullName),
		BirthDate:      in.BirthDate,
		PassportNumber: strings.TrimSpace(in.PassportNumber),
		ExpiresAt:      in.ExpiresAt,
		Notes:          strings.TrimSpace(in.Notes),
		GroupID:        in.GroupID,
		Status:         in.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !createdBy.IsNil() {
		p.CreatedBy = &createdBy
	}
	return p, nil
}

// UpdateInput holds the admin-editable fields of a passport. Nil means
// "leave unchanged". The struct cannot express changes to PublicID,
// QRCodeURL, CreatedBy, or CreatedAt.
type UpdateInput struct {
	FullName       *string
	BirthDate      *time.Time
	PassportNumber *string
	ExpiresAt      *time.Time
	Notes          *string
	GroupID        *id.GroupID
	Status         *bool
	Photo          *PhotoUpload
}

// Apply writes the supplied fields onto the record and bumps UpdatedAt.
func (in *UpdateInput) Apply(p *Person, now time.Time) error {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "full_name cannot be empty")
		}
		p.FullName = name
	}
	if in.BirthDate != nil {
		if in.BirthDate.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "birth_date cannot be empty")
		}
		p.BirthDate = *in.BirthDate
	}
	if in.PassportNumber != nil {
		number := strings.TrimSpace(*in.PassportNumber)
		if number == "" {
			return dErrors.New(dErrors.CodeValidation, "passport_number cannot be empty")
		}
		p.PassportNumber = number
	}
	if in.ExpiresAt != nil {
		if in.ExpiresAt.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "expires_at cannot be empty")
		}
		p.ExpiresAt = *in.ExpiresAt
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.GroupID != nil {
		if in.GroupID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "group_id cannot be empty")
		}
		p.GroupID = *in.GroupID
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	p.UpdatedAt = now
	return nil
}

// IsExpiredOn reports whether the record should be auto-deactivated as of
// the given instant: still active, with an expiration day strictly before
// the instant's day in the instant's location.
func (p *Person) IsExpiredOn(now time.Time) bool {
	if !p.Status {
		return false
	}
	expiry := dateOnly(p.ExpiresAt.In(now.Location()))
	today := dateOnly(now)
	return expiry.Before(today)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
