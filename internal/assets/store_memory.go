package assets

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore backs the asset pipeline in tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	baseURL string
}

func NewInMemoryStore(baseURL string) *InMemoryStore {
	return &InMemoryStore{
		blobs:   make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *InMemoryStore) Put(_ context.Context, key string, data []byte) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return s.baseURL + "/uploads/" + key, nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *InMemoryStore) KeyFromURL(url string) string {
	key, ok := strings.CutPrefix(url, s.baseURL+"/uploads/")
	if !ok {
		return ""
	}
	return key
}

// Get returns the stored bytes for assertions in tests.
func (s *InMemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	return data, ok
}

// Len reports how many blobs are stored.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
