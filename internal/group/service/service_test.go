package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"passreg/internal/activity"
	"passreg/internal/group/models"
	"passreg/internal/group/store"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/sentinel"
)

// countStub stands in for the passport store's group membership count.
type countStub struct {
	counts map[id.GroupID]int
}

func (c *countStub) CountByGroup(_ context.Context, groupID id.GroupID) (int, error) {
	return c.counts[groupID], nil
}

type GroupServiceSuite struct {
	suite.Suite
	groups  *store.InMemory
	people  *countStub
	entries *activity.InMemoryStore
	service *Service
	ctx     context.Context
	adminID id.AdminID
}

func TestGroupServiceSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceSuite))
}

func (s *GroupServiceSuite) SetupTest() {
	s.groups = store.NewInMemory()
	s.people = &countStub{counts: make(map[id.GroupID]int)}
	s.entries = activity.NewInMemoryStore()
	s.service = New(s.groups, s.people, activity.NewPublisher(s.entries, slog.New(slog.DiscardHandler)))
	s.ctx = context.Background()
	s.adminID = id.NewAdminID()
}

func (s *GroupServiceSuite) lastEntry() activity.Entry {
	entries, err := s.entries.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(entries)
	return entries[0]
}

func (s *GroupServiceSuite) TestCreate() {
	s.Run("creates and logs", func() {
		group, err := s.service.Create(s.ctx, "  Отдел A  ", s.adminID)
		s.Require().NoError(err)
		s.Equal("Отдел A", group.Name)
		s.Require().NotNil(group.CreatedBy)
		s.Equal(s.adminID, *group.CreatedBy)

		entry := s.lastEntry()
		s.Equal(activity.ActionGroupCreated, entry.Action)
		s.Equal(group.ID.String(), entry.EntityID)
	})

	s.Run("rejects an empty name", func() {
		_, err := s.service.Create(s.ctx, "   ", s.adminID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *GroupServiceSuite) TestRename() {
	group, err := s.service.Create(s.ctx, "Before", s.adminID)
	s.Require().NoError(err)

	renamed, err := s.service.Rename(s.ctx, group.ID, "After", s.adminID)
	s.Require().NoError(err)
	s.Equal("After", renamed.Name)

	entry := s.lastEntry()
	s.Equal(activity.ActionGroupRenamed, entry.Action)
	s.Equal("Before", entry.Details["old_name"])
	s.Equal("After", entry.Details["new_name"])
}

func (s *GroupServiceSuite) TestDelete() {
	s.Run("blocks deleting a group that still has passports", func() {
		group, err := s.service.Create(s.ctx, "Occupied", s.adminID)
		s.Require().NoError(err)
		s.people.counts[group.ID] = 2

		err = s.service.Delete(s.ctx, group.ID, s.adminID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		_, err = s.service.Get(s.ctx, group.ID)
		s.Require().NoError(err, "blocked deletion must keep the group")
	})

	s.Run("deletes an empty group and logs", func() {
		group, err := s.service.Create(s.ctx, "Empty", s.adminID)
		s.Require().NoError(err)

		s.Require().NoError(s.service.Delete(s.ctx, group.ID, s.adminID))

		_, err = s.service.Get(s.ctx, group.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		entry := s.lastEntry()
		s.Equal(activity.ActionGroupDeleted, entry.Action)
		s.Equal("Empty", entry.Details["name"])
	})

	s.Run("unknown group is not found", func() {
		err := s.service.Delete(s.ctx, id.NewGroupID(), s.adminID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *GroupServiceSuite) TestListReportsBackendOutage() {
	svc := New(unavailableStore{}, s.people, activity.NewPublisher(s.entries, slog.New(slog.DiscardHandler)))

	_, err := svc.List(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Contains(dErrors.MessageOf(err), "unreachable")
}

// unavailableStore simulates an unreachable storage backend on listing.
type unavailableStore struct{}

func (unavailableStore) Create(context.Context, *models.Group) error { return nil }
func (unavailableStore) FindByID(context.Context, id.GroupID) (*models.Group, error) {
	return nil, sentinel.ErrNotFound
}
func (unavailableStore) List(context.Context) ([]*models.Group, error) {
	return nil, fmt.Errorf("query groups: %w", sentinel.ErrUnavailable)
}
func (unavailableStore) Update(context.Context, *models.Group) error { return nil }
func (unavailableStore) Delete(context.Context, id.GroupID) error    { return nil }
