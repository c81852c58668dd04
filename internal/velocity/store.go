// Package velocity maintains the per-user sliding-window transaction history
// that feeds feature derivation. The store is the only shared mutable state in
// the system: implementations must serialize read-modify-write per user while
// leaving distinct users fully concurrent.
package velocity

import (
	"context"
	"time"

	"fraudgate/internal/domain"
)

// Store is the keyed, TTL-bounded, atomically-updated transaction log.
type Store interface {
	// RecordAndFetch appends the summary to the user's window and returns the
	// prior summaries still inside window, oldest first. The entry just
	// recorded is not included in the returned history. Entries older than
	// the window, measured against the incoming summary's timestamp, are
	// evicted as a side effect.
	//
	// Implementations return sentinel.ErrStateUnavailable (wrapped) when the
	// backing store cannot be reached and sentinel.ErrTimeout when the call
	// exceeds its deadline.
	RecordAndFetch(ctx context.Context, userID string, summary domain.Summary, window time.Duration) ([]domain.Summary, error)
}
