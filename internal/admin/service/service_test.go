package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"passreg/internal/activity"
	"passreg/internal/admin/store"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

type AdminServiceSuite struct {
	suite.Suite
	admins  *store.InMemory
	entries *activity.InMemoryStore
	service *Service
	ctx     context.Context
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.admins = store.NewInMemory()
	s.entries = activity.NewInMemoryStore()
	s.service = New(s.admins, activity.NewPublisher(s.entries, slog.New(slog.DiscardHandler)))
	s.ctx = context.Background()
}

func (s *AdminServiceSuite) TestEnsure() {
	s.Run("first account becomes main admin", func() {
		admin, err := s.service.Ensure(s.ctx, "First@example.com", "First", "")
		s.Require().NoError(err)
		s.True(admin.IsMainAdmin)
		s.True(admin.IsActive)
		s.Equal("first@example.com", admin.Email, "email stored lowercase")
	})

	s.Run("subsequent accounts are regular admins", func() {
		admin, err := s.service.Ensure(s.ctx, "second@example.com", "Second", "")
		s.Require().NoError(err)
		s.False(admin.IsMainAdmin)
	})

	s.Run("re-authentication refreshes profile", func() {
		admin, err := s.service.Ensure(s.ctx, "first@example.com", "Renamed", "https://cdn/photo.png")
		s.Require().NoError(err)
		s.Equal("Renamed", admin.Name)
		s.Equal("https://cdn/photo.png", admin.PhotoURL)

		total, err := s.admins.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, total, "re-auth must not create a second account")
	})
}

func (s *AdminServiceSuite) TestSetActive() {
	main, err := s.service.Ensure(s.ctx, "main@example.com", "Main", "")
	s.Require().NoError(err)
	other, err := s.service.Ensure(s.ctx, "other@example.com", "Other", "")
	s.Require().NoError(err)

	s.Run("deactivates a regular admin and logs it", func() {
		updated, err := s.service.SetActive(s.ctx, other.ID, false, main.ID)
		s.Require().NoError(err)
		s.False(updated.IsActive)

		entries, err := s.entries.ListAll(s.ctx)
		s.Require().NoError(err)
		s.Require().NotEmpty(entries)
		s.Equal(activity.ActionAdminDeactivated, entries[0].Action)
		s.Equal(main.ID, *entries[0].PerformedBy)
	})

	s.Run("deactivating twice conflicts", func() {
		_, err := s.service.SetActive(s.ctx, other.ID, false, main.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("refuses to deactivate the last active main admin", func() {
		_, err := s.service.SetActive(s.ctx, main.ID, false, main.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		current, ferr := s.admins.FindByID(s.ctx, main.ID)
		s.Require().NoError(ferr)
		s.True(current.IsActive)
	})

	s.Run("unknown admin is not found", func() {
		_, err := s.service.SetActive(s.ctx, id.NewAdminID(), false, main.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
