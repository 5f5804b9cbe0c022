package storage

import (
	"context"
	"sync"

	"family-backend/internal/models"
)

// MemoryStore keeps the member collection in process memory. Used by tests
// and by ephemeral runs (storage driver "memory"); data is gone when the
// process exits. Load and Save copy the slice so callers never share backing
// arrays with the store.
type MemoryStore struct {
	mu      sync.Mutex
	members []models.Member
}

// NewMemoryStore creates a memory store seeded with the given members.
func NewMemoryStore(seed []models.Member) *MemoryStore {
	s := &MemoryStore{}
	s.members = append(s.members, seed...)
	return s
}

func (s *MemoryStore) Load(_ context.Context) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Member, len(s.members))
	copy(out, s.members)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, members []models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make([]models.Member, len(members))
	copy(s.members, members)
	return nil
}
