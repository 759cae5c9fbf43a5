package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"passreg/internal/passport/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

type PersonStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestPersonStoreSuite(t *testing.T) {
	suite.Run(t, new(PersonStoreSuite))
}

func (s *PersonStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *PersonStoreSuite) newPerson(groupID id.GroupID) *models.Person {
	publicID, err := id.NewPublicID()
	s.Require().NoError(err)
	person, err := models.NewPerson(id.NewPersonID(), publicID, models.CreateInput{
		FullName:       "Иванов Иван",
		BirthDate:      time.Date(1985, 3, 3, 0, 0, 0, 0, time.Local),
		PassportNumber: "4510 000000",
		ExpiresAt:      time.Now().AddDate(1, 0, 0),
		GroupID:        groupID,
		Status:         true,
	}, id.NewAdminID(), time.Now())
	s.Require().NoError(err)
	return person
}

func (s *PersonStoreSuite) TestCreationAndLookups() {
	person := s.newPerson(id.NewGroupID())
	s.Require().NoError(s.store.Create(s.ctx, person))

	s.Run("finds by internal id", func() {
		found, err := s.store.FindByID(s.ctx, person.ID)
		s.Require().NoError(err)
		s.Equal(person.PublicID, found.PublicID)
	})

	s.Run("finds by public id", func() {
		found, err := s.store.FindByPublicID(s.ctx, person.PublicID)
		s.Require().NoError(err)
		s.Equal(person.ID, found.ID)
	})

	s.Run("unknown ids are not found", func() {
		_, err := s.store.FindByID(s.ctx, id.NewPersonID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		unknown, err := id.NewPublicID()
		s.Require().NoError(err)
		_, err = s.store.FindByPublicID(s.ctx, unknown)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PersonStoreSuite) TestUpdateAndDelete() {
	person := s.newPerson(id.NewGroupID())
	s.Require().NoError(s.store.Create(s.ctx, person))

	person.Status = false
	s.Require().NoError(s.store.Update(s.ctx, person))

	found, err := s.store.FindByID(s.ctx, person.ID)
	s.Require().NoError(err)
	s.False(found.Status)

	s.Require().NoError(s.store.Delete(s.ctx, person.ID))
	s.Require().ErrorIs(s.store.Delete(s.ctx, person.ID), sentinel.ErrNotFound)
}

func (s *PersonStoreSuite) TestCountByGroup() {
	groupA := id.NewGroupID()
	groupB := id.NewGroupID()
	s.Require().NoError(s.store.Create(s.ctx, s.newPerson(groupA)))
	s.Require().NoError(s.store.Create(s.ctx, s.newPerson(groupA)))
	s.Require().NoError(s.store.Create(s.ctx, s.newPerson(groupB)))

	n, err := s.store.CountByGroup(s.ctx, groupA)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.CountByGroup(s.ctx, id.NewGroupID())
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *PersonStoreSuite) TestListOldestFirst() {
	older := s.newPerson(id.NewGroupID())
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := s.newPerson(id.NewGroupID())

	s.Require().NoError(s.store.Create(s.ctx, newer))
	s.Require().NoError(s.store.Create(s.ctx, older))

	people, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(people, 2)
	s.Equal(older.ID, people[0].ID)
}
