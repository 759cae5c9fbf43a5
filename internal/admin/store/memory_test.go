package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"passreg/internal/admin/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

type AdminStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestAdminStoreSuite(t *testing.T) {
	suite.Run(t, new(AdminStoreSuite))
}

func (s *AdminStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *AdminStoreSuite) newAdmin(email string, mainAdmin bool) *models.Admin {
	admin, err := models.NewAdmin(id.NewAdminID(), email, "Test Admin", mainAdmin, time.Now())
	s.Require().NoError(err)
	return admin
}

func (s *AdminStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds by id and email", func() {
		admin := s.newAdmin("first@example.com", true)
		s.Require().NoError(s.store.Create(s.ctx, admin))

		byID, err := s.store.FindByID(s.ctx, admin.ID)
		s.Require().NoError(err)
		s.Equal(admin.Email, byID.Email)

		byEmail, err := s.store.FindByEmail(s.ctx, "FIRST@example.com")
		s.Require().NoError(err)
		s.Equal(admin.ID, byEmail.ID)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewAdminID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate id", func() {
		admin := s.newAdmin("dup@example.com", false)
		s.Require().NoError(s.store.Create(s.ctx, admin))
		s.Require().ErrorIs(s.store.Create(s.ctx, admin), sentinel.ErrConflict)
	})
}

func (s *AdminStoreSuite) TestExecuteHoldsValidation() {
	admin := s.newAdmin("exec@example.com", false)
	s.Require().NoError(s.store.Create(s.ctx, admin))

	updated, err := s.store.Execute(s.ctx, admin.ID,
		func(a *models.Admin) error { return a.CanSetActive(false) },
		func(a *models.Admin) { a.ApplySetActive(false, time.Now()) },
	)
	s.Require().NoError(err)
	s.False(updated.IsActive)

	_, err = s.store.Execute(s.ctx, admin.ID,
		func(a *models.Admin) error { return a.CanSetActive(false) },
		func(a *models.Admin) { a.ApplySetActive(false, time.Now()) },
	)
	s.Require().Error(err, "validation must see the already-applied state")
}

func (s *AdminStoreSuite) TestCounts() {
	s.Require().NoError(s.store.Create(s.ctx, s.newAdmin("main@example.com", true)))
	s.Require().NoError(s.store.Create(s.ctx, s.newAdmin("plain@example.com", false)))

	mains, err := s.store.CountActiveMainAdmins(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, mains)

	total, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, total)
}

func (s *AdminStoreSuite) TestListOldestFirst() {
	first := s.newAdmin("a@example.com", true)
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := s.newAdmin("b@example.com", false)
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	admins, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(admins, 2)
	s.Equal("a@example.com", admins[0].Email)
}
