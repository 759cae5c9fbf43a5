// Package store persists groups. Both implementations return copies so
// callers never mutate stored state through shared pointers.
package store

import (
	"context"
	"sort"
	"sync"

	"passreg/internal/group/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

// InMemory keeps groups in process memory.
type InMemory struct {
	mu     sync.RWMutex
	groups map[id.GroupID]models.Group
}

func NewInMemory() *InMemory {
	return &InMemory{groups: make(map[id.GroupID]models.Group)}
}

func (s *InMemory) Create(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; ok {
		return sentinel.ErrConflict
	}
	s.groups[group.ID] = *group
	return nil
}

func (s *InMemory) FindByID(_ context.Context, groupID id.GroupID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if group, ok := s.groups[groupID]; ok {
		return &group, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Group, 0, len(s.groups))
	for _, group := range s.groups {
		found := group
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.groups[group.ID] = *group
	return nil
}

func (s *InMemory) Delete(_ context.Context, groupID id.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.groups, groupID)
	return nil
}
