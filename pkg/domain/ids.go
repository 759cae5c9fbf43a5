// Package domain holds the typed identifiers shared across modules. IDs are
// distinct types over uuid.UUID so a GroupID can never be passed where an
// AdminID is expected; the compiler enforces it.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	dErrors "passreg/pkg/domain-errors"
)

type (
	// AdminID identifies a dashboard administrator.
	AdminID uuid.UUID
	// GroupID identifies an organizational group.
	GroupID uuid.UUID
	// PersonID is the internal identifier of a passport record.
	PersonID uuid.UUID
)

func (id AdminID) String() string  { return uuid.UUID(id).String() }
func (id GroupID) String() string  { return uuid.UUID(id).String() }
func (id PersonID) String() string { return uuid.UUID(id).String() }

func (id AdminID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id GroupID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders IDs as canonical UUID strings in JSON and logs.
func (id AdminID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id GroupID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id PersonID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AdminID) UnmarshalText(b []byte) error {
	parsed, err := ParseAdminID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *GroupID) UnmarshalText(b []byte) error {
	parsed, err := ParseGroupID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PersonID) UnmarshalText(b []byte) error {
	parsed, err := ParsePersonID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewAdminID returns a fresh random AdminID.
func NewAdminID() AdminID { return AdminID(uuid.New()) }

// NewGroupID returns a fresh random GroupID.
func NewGroupID() GroupID { return GroupID(uuid.New()) }

// NewPersonID returns a fresh random PersonID.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// parseUUID enforces the trust-boundary invariant for all typed IDs:
// valid, non-empty, non-nil UUIDs only.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseAdminID validates and returns an AdminID.
func ParseAdminID(s string) (AdminID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AdminID{}, err
	}
	return AdminID(u), nil
}

// ParseGroupID validates and returns a GroupID.
func ParseGroupID(s string) (GroupID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return GroupID{}, err
	}
	return GroupID(u), nil
}

// ParsePersonID validates and returns a PersonID.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return PersonID{}, err
	}
	return PersonID(u), nil
}

// PublicIDLength is the fixed length of a passport public identifier.
const PublicIDLength = 32

// PublicID is the opaque token a passport is addressed by on its public
// page and inside its QR code. Generated once at creation, never rotated.
type PublicID string

// NewPublicID draws 16 bytes from crypto/rand and hex-encodes them.
// Collisions are negligible at this size, so callers treat the value as
// unique without a store pre-check.
func NewPublicID() (PublicID, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return PublicID(hex.EncodeToString(buf[:])), nil
}

// ParsePublicID validates the fixed-length lowercase hex format. It rejects
// anything that could not have been produced by NewPublicID so unauthenticated
// lookups never reach the store with attacker-shaped input.
func ParsePublicID(s string) (PublicID, error) {
	if len(s) != PublicIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "public id has wrong length")
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "public id must be lowercase hex")
	}
	for _, r := range s {
		if r >= 'A' && r <= 'F' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "public id must be lowercase hex")
		}
	}
	return PublicID(s), nil
}

func (p PublicID) String() string { return string(p) }

// IsNil returns true when the public ID is empty.
func (p PublicID) IsNil() bool { return p == "" }
