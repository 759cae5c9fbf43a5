// Package service owns the group lifecycle. Groups organize passports; a
// group that still contains passports cannot be deleted.
package service

import (
	"context"
	"errors"

	"passreg/internal/activity"
	"passreg/internal/group/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/sentinel"
	"passreg/pkg/requestcontext"
)

// Store persists groups.
type Store interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, groupID id.GroupID) error
}

// PersonCounter reports how many passports currently belong to a group. It
// breaks the import cycle with the passport module; the server wires the
// passport store in here.
type PersonCounter interface {
	CountByGroup(ctx context.Context, groupID id.GroupID) (int, error)
}

// Service orchestrates group operations.
type Service struct {
	groups   Store
	people   PersonCounter
	activity *activity.Publisher
}

func New(groups Store, people PersonCounter, publisher *activity.Publisher) *Service {
	return &Service{groups: groups, people: people, activity: publisher}
}

// Create registers a new group and records the creation.
func (s *Service) Create(ctx context.Context, name string, createdBy id.AdminID) (*models.Group, error) {
	now := requestcontext.Now(ctx)
	group, err := models.NewGroup(id.NewGroupID(), name, createdBy, now)
	if err != nil {
		return nil, err
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create group")
	}

	s.activity.Log(ctx, activity.ActionGroupCreated, activity.EntityGroup, group.ID.String(), &createdBy, map[string]any{
		"name": group.Name,
	})
	return group, nil
}

// Get returns a single group.
func (s *Service) Get(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "group not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up group")
	}
	return group, nil
}

// List returns all groups, oldest first. An unreachable backend is
// reported distinctly so operators see a connectivity problem, not a
// generic failure.
func (s *Service) List(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable,
				"group storage backend is unreachable; verify the database is running and PASSREG_POSTGRES_URL is correct")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list groups")
	}
	return groups, nil
}

// Rename changes a group's name and records old and new names.
func (s *Service) Rename(ctx context.Context, groupID id.GroupID, name string, performedBy id.AdminID) (*models.Group, error) {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	oldName := group.Name
	if err := group.Rename(name, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.groups.Update(ctx, group); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "group not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rename group")
	}

	s.activity.Log(ctx, activity.ActionGroupRenamed, activity.EntityGroup, group.ID.String(), &performedBy, map[string]any{
		"old_name": oldName,
		"new_name": group.Name,
	})
	return group, nil
}

// Delete removes an empty group. Deleting a group that still holds passports
// is refused; the caller must move or delete its passports first.
func (s *Service) Delete(ctx context.Context, groupID id.GroupID, performedBy id.AdminID) error {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}

	count, err := s.people.CountByGroup(ctx, groupID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count group members")
	}
	if count > 0 {
		return dErrors.Newf(dErrors.CodeConflict, "group still contains %d passports; move or delete them first", count)
	}

	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "group not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete group")
	}

	s.activity.Log(ctx, activity.ActionGroupDeleted, activity.EntityGroup, group.ID.String(), &performedBy, map[string]any{
		"name": group.Name,
	})
	return nil
}
