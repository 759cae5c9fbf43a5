package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

func validInput() CreateInput {
	return CreateInput{
		FullName:       "Иванов Иван Иванович",
		BirthDate:      time.Date(1990, 5, 12, 0, 0, 0, 0, time.Local),
		PassportNumber: "4510 123456",
		ExpiresAt:      time.Now().AddDate(5, 0, 0),
		GroupID:        id.NewGroupID(),
		Status:         true,
	}
}

func mustPublicID(t *testing.T) id.PublicID {
	t.Helper()
	publicID, err := id.NewPublicID()
	require.NoError(t, err)
	return publicID
}

func TestNewPersonValidation(t *testing.T) {
	now := time.Now()

	t.Run("accepts valid input", func(t *testing.T) {
		in := validInput()
		creator := id.NewAdminID()
		person, err := NewPerson(id.NewPersonID(), mustPublicID(t), in, creator, now)
		require.NoError(t, err)
		assert.Equal(t, in.FullName, person.FullName)
		assert.True(t, person.Status)
		require.NotNil(t, person.CreatedBy)
		assert.Equal(t, creator, *person.CreatedBy)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		mutations := map[string]func(*CreateInput){
			"full name":       func(in *CreateInput) { in.FullName = "  " },
			"birth date":      func(in *CreateInput) { in.BirthDate = time.Time{} },
			"passport number": func(in *CreateInput) { in.PassportNumber = "" },
			"expiration date": func(in *CreateInput) { in.ExpiresAt = time.Time{} },
			"group":           func(in *CreateInput) { in.GroupID = id.GroupID{} },
		}
		for name, mutate := range mutations {
			in := validInput()
			mutate(&in)
			_, err := NewPerson(id.NewPersonID(), mustPublicID(t), in, id.NewAdminID(), now)
			require.Error(t, err, "missing %s", name)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "missing %s", name)
		}
	})
}

func TestUpdateInputApply(t *testing.T) {
	now := time.Now()
	person, err := NewPerson(id.NewPersonID(), mustPublicID(t), validInput(), id.NewAdminID(), now.Add(-time.Hour))
	require.NoError(t, err)

	originalPublicID := person.PublicID
	originalCreatedBy := *person.CreatedBy
	originalCreatedAt := person.CreatedAt

	newName := "Петров Пётр"
	inactive := false
	in := UpdateInput{FullName: &newName, Status: &inactive}
	require.NoError(t, in.Apply(person, now))

	assert.Equal(t, "Петров Пётр", person.FullName)
	assert.False(t, person.Status)
	assert.Equal(t, now, person.UpdatedAt)

	// Immutable fields survive any update payload.
	assert.Equal(t, originalPublicID, person.PublicID)
	assert.Equal(t, originalCreatedBy, *person.CreatedBy)
	assert.Equal(t, originalCreatedAt, person.CreatedAt)

	t.Run("rejects clearing required fields", func(t *testing.T) {
		empty := "  "
		err := (&UpdateInput{FullName: &empty}).Apply(person, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestIsExpiredOn(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)

	person, err := NewPerson(id.NewPersonID(), mustPublicID(t), validInput(), id.NewAdminID(), now)
	require.NoError(t, err)

	t.Run("yesterday is expired", func(t *testing.T) {
		person.Status = true
		person.ExpiresAt = now.AddDate(0, 0, -1)
		assert.True(t, person.IsExpiredOn(now))
	})

	t.Run("today is not expired", func(t *testing.T) {
		person.ExpiresAt = now.Add(-2 * time.Hour) // same day, earlier time
		assert.False(t, person.IsExpiredOn(now))
	})

	t.Run("tomorrow is not expired", func(t *testing.T) {
		person.ExpiresAt = now.AddDate(0, 0, 1)
		assert.False(t, person.IsExpiredOn(now))
	})

	t.Run("inactive records never re-expire", func(t *testing.T) {
		person.Status = false
		person.ExpiresAt = now.AddDate(0, 0, -10)
		assert.False(t, person.IsExpiredOn(now))
	})
}
