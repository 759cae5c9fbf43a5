package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"passreg/internal/group/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

type GroupStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestGroupStoreSuite(t *testing.T) {
	suite.Run(t, new(GroupStoreSuite))
}

func (s *GroupStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *GroupStoreSuite) newGroup(name string) *models.Group {
	group, err := models.NewGroup(id.NewGroupID(), name, id.NewAdminID(), time.Now())
	s.Require().NoError(err)
	return group
}

func (s *GroupStoreSuite) TestCreationAndLookup() {
	group := s.newGroup("Отдел A")
	s.Require().NoError(s.store.Create(s.ctx, group))

	found, err := s.store.FindByID(s.ctx, group.ID)
	s.Require().NoError(err)
	s.Equal("Отдел A", found.Name)

	_, err = s.store.FindByID(s.ctx, id.NewGroupID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *GroupStoreSuite) TestUpdateAndDelete() {
	group := s.newGroup("Before")
	s.Require().NoError(s.store.Create(s.ctx, group))

	s.Require().NoError(group.Rename("After", time.Now()))
	s.Require().NoError(s.store.Update(s.ctx, group))

	found, err := s.store.FindByID(s.ctx, group.ID)
	s.Require().NoError(err)
	s.Equal("After", found.Name)

	s.Require().NoError(s.store.Delete(s.ctx, group.ID))
	s.Require().ErrorIs(s.store.Delete(s.ctx, group.ID), sentinel.ErrNotFound)
}

func (s *GroupStoreSuite) TestListOldestFirst() {
	older := s.newGroup("Older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := s.newGroup("Newer")

	s.Require().NoError(s.store.Create(s.ctx, newer))
	s.Require().NoError(s.store.Create(s.ctx, older))

	groups, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(groups, 2)
	s.Equal("Older", groups[0].Name)
}

func (s *GroupStoreSuite) TestCopiesDoNotAlias() {
	group := s.newGroup("Original")
	s.Require().NoError(s.store.Create(s.ctx, group))

	found, err := s.store.FindByID(s.ctx, group.ID)
	s.Require().NoError(err)
	found.Name = "Mutated"

	again, err := s.store.FindByID(s.ctx, group.ID)
	s.Require().NoError(err)
	s.Equal("Original", again.Name)
}
