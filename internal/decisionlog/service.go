package decisionlog

import (
	"context"
	"log/slog"
)

// Service takes verdict records off the request path: Record enqueues without
// blocking, Run drains the inbox into the store and the optional publisher.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	inbox     chan Record
}

// NewService builds the logging service. publisher may be nil when no brokers
// are configured.
func NewService(store Store, publisher Publisher, logger *slog.Logger, buffer int) *Service {
	if buffer <= 0 {
		buffer = 256
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		inbox:     make(chan Record, buffer),
	}
}

// Record enqueues a decision record. If the inbox is saturated the record is
// dropped with a warning: losing one audit row is preferable to stalling the
// decision path.
func (s *Service) Record(rec Record) {
	select {
	case s.inbox <- rec:
	default:
		s.logger.Warn("decision log inbox full, dropping record",
			"transaction_id", rec.TransactionID,
		)
	}
}

// Run consumes the inbox until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec := <-s.inbox:
			s.persist(ctx, rec)
		}
	}
}

func (s *Service) persist(ctx context.Context, rec Record) {
	if err := s.store.Append(ctx, rec); err != nil {
		s.logger.Error("decision log append failed",
			"transaction_id", rec.TransactionID,
			"error", err,
		)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, rec); err != nil {
			s.logger.Error("decision publish failed",
				"transaction_id", rec.TransactionID,
				"error", err,
			)
		}
	}
}

// ListRecent exposes the store's recent records for the history endpoint.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	return s.store.ListRecent(ctx, limit)
}
