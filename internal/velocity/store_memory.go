package velocity

import (
	"context"
	"sync"
	"time"

	"fraudgate/internal/domain"
)

// InMemoryStore implements Store with per-user sliding windows. Each user owns
// its own lock so concurrent requests for distinct users never contend; the
// map-level lock is held only long enough to look up or create a window.
type InMemoryStore struct {
	mu      sync.RWMutex
	windows map[string]*userWindow

	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

// userWindow tracks recent transaction summaries for one user. Eviction is
// lazy: entries older than the window are dropped on each access, measured
// against the incoming transaction's timestamp.
type userWindow struct {
	mu      sync.Mutex
	entries []domain.Summary
	touched time.Time
}

// NewInMemoryStore creates an in-memory velocity store and starts a background
// sweep that drops windows idle for longer than the retention window.
func NewInMemoryStore(sweepInterval time.Duration) *InMemoryStore {
	s := &InMemoryStore{
		windows:       make(map[string]*userWindow),
		sweepInterval: sweepInterval,
		done:          make(chan struct{}),
	}
	go s.sweep()
	return s
}

// RecordAndFetch implements Store. The in-memory variant cannot fail, so the
// error is always nil; the signature matches the Redis implementation.
func (s *InMemoryStore) RecordAndFetch(ctx context.Context, userID string, summary domain.Summary, window time.Duration) ([]domain.Summary, error) {
	w := s.getOrCreateWindow(userID)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.evict(summary.Timestamp.Add(-window))

	prior := make([]domain.Summary, len(w.entries))
	copy(prior, w.entries)

	w.entries = append(w.entries, summary)
	w.touched = time.Now()

	return prior, nil
}

func (s *InMemoryStore) getOrCreateWindow(userID string) *userWindow {
	s.mu.RLock()
	w := s.windows[userID]
	s.mu.RUnlock()
	if w != nil {
		return w
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w = s.windows[userID]; w != nil {
		return w
	}
	w = &userWindow{touched: time.Now()}
	s.windows[userID] = w
	return w
}

// evict drops entries at or before the cutoff. Must be called holding w.mu.
func (w *userWindow) evict(cutoff time.Time) {
	kept := w.entries[:0]
	for _, e := range w.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	w.entries = kept
}

// sweep periodically removes windows that have not been touched recently so
// one-off users do not accumulate forever.
func (s *InMemoryStore) sweep() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-2 * s.sweepInterval)
			s.mu.Lock()
			for userID, w := range s.windows {
				w.mu.Lock()
				idle := w.touched.Before(cutoff)
				w.mu.Unlock()
				if idle {
					delete(s.windows, userID)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Close stops the background sweep.
func (s *InMemoryStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
