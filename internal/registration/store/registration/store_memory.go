package registration

import (
	"context"
	"fmt"
	"sync"

	reg "tapclaim/internal/registration"
	"tapclaim/pkg/platform/sentinel"
	"tapclaim/pkg/requestcontext"
)

// InMemory is a mutex-guarded store for unit tests and zero-config runs.
// Semantics mirror PostgresStore: same uniqueness rule, same sentinels,
// callers get copies only. Timestamps come from requestcontext.Now so tests
// can inject time.
type InMemory struct {
	mu     sync.Mutex
	items  []*reg.Registration
	byPair map[string]struct{}
	nextID int64
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{byPair: make(map[string]struct{})}
}

// Insert persists one registration, assigning ID and timestamps.
// A duplicate address pair returns sentinel.ErrConflict and leaves the store
// unchanged.
func (s *InMemory) Insert(ctx context.Context, r *reg.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.PairKey()
	if _, exists := s.byPair[key]; exists {
		return fmt.Errorf("insert registration: %w", sentinel.ErrConflict)
	}

	s.nextID++
	now := requestcontext.Now(ctx)
	r.ID = s.nextID
	r.CreatedAt = now
	r.UpdatedAt = now

	stored := *r
	s.byPair[key] = struct{}{}
	s.items = append(s.items, &stored)
	return nil
}

// ListAll returns a fresh snapshot in ascending id order.
func (s *InMemory) ListAll(_ context.Context) ([]*reg.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*reg.Registration, 0, len(s.items))
	for _, item := range s.items {
		c := *item
		out = append(out, &c)
	}
	return out, nil
}

// Close implements the store port; the memory store holds no resources.
func (s *InMemory) Close() error {
	return nil
}
