package decisionlog

import "context"

// Store is the persistence port for decision records.
type Store interface {
	// Append persists one record.
	Append(ctx context.Context, rec Record) error

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
