package store

import (
	"context"
	"sync"

	"icbridge/internal/account/models"
)

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	creds models.Credentials
	set   bool
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (models.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return models.Credentials{}, nil
	}
	return s.creds, nil
}

func (s *MemoryStore) Save(_ context.Context, creds models.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.set = true
	return nil
}
