package decisionlog

import (
	"context"
	"sync"
)

// InMemoryStore keeps the most recent records in a bounded ring. It backs
// development deployments and tests; production uses the Postgres store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
	next    int
	full    bool
	cap     int
}

// NewInMemoryStore creates a ring store holding up to capacity records.
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &InMemoryStore{records: make([]Record, capacity), cap: capacity}
}

// Append implements Store. The oldest record is overwritten once the ring is
// full.
func (s *InMemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[s.next] = rec
	s.next = (s.next + 1) % s.cap
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// ListRecent implements Store, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := s.next
	if s.full {
		size = s.cap
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + s.cap) % s.cap
		out = append(out, s.records[idx])
	}
	return out, nil
}
