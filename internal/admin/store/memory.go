package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"passreg/internal/admin/models"
	id "passreg/pkg/domain"
	"passreg/pkg/platform/sentinel"
)

// InMemory keeps admin accounts in process memory. Copies go in and out so
// callers never share the stored structs.
type InMemory struct {
	mu     sync.RWMutex
	admins map[id.AdminID]models.Admin
}

func NewInMemory() *InMemory {
	return &InMemory{admins: make(map[id.AdminID]models.Admin)}
}

func (s *InMemory) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[admin.ID]; ok {
		return sentinel.ErrConflict
	}
	s.admins[admin.ID] = *admin
	return nil
}

func (s *InMemory) FindByID(_ context.Context, adminID id.AdminID) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if admin, ok := s.admins[adminID]; ok {
		return &admin, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, admin := range s.admins {
		if admin.Email == email {
			found := admin
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Admin, 0, len(s.admins))
	for _, admin := range s.admins {
		found := admin
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[admin.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.admins[admin.ID] = *admin
	return nil
}

// Execute runs validate-then-mutate while holding the store lock, so the
// checked state cannot change under the mutation.
func (s *InMemory) Execute(_ context.Context, adminID id.AdminID, validate func(*models.Admin) error, apply func(*models.Admin)) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[adminID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&admin); err != nil {
		return nil, err
	}
	apply(&admin)
	s.admins[adminID] = admin
	return &admin, nil
}

// CountActiveMainAdmins returns how many active main-admin accounts exist.
func (s *InMemory) CountActiveMainAdmins(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, admin := range s.admins {
		if admin.IsMainAdmin && admin.IsActive {
			n++
		}
	}
	return n, nil
}

// Count returns the total number of admin accounts.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}
