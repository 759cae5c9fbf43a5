// Package store persists passport records. Both implementations return
// copies so callers never mutate stored state through shared pointers.
package store

import (
	"context"
	"sort"
	"sync"

	"passreg/internal/passport/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

// InMemory keeps passport records in process memory.
type InMemory struct {
	mu     sync.RWMutex
	people map[id.PersonID]models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{people: make(map[id.PersonID]models.Person)}
}

func (s *InMemory) Create(_ context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[person.ID]; ok {
		return sentinel.ErrConflict
	}
	s.people[person.ID] = *person
	return nil
}

func (s *InMemory) FindByID(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if person, ok := s.people[personID]; ok {
		return &person, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByPublicID(_ context.Context, publicID id.PublicID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, person := range s.people {
		if person.PublicID == publicID {
			found := person
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0, len(s.people))
	for _, person := range s.people {
		found := person
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[person.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.people[person.ID] = *person
	return nil
}

func (s *InMemory) Delete(_ context.Context, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[personID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.people, personID)
	return nil
}

// CountByGroup reports how many passports belong to a group. The group
// module consults it before allowing deletion.
func (s *InMemory) CountByGroup(_ context.Context, groupID id.GroupID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, person := range s.people {
		if person.GroupID == groupID {
			n++
		}
	}
	return n, nil
}
