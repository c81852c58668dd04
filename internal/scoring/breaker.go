package scoring

import (
	"context"
	"fmt"

	"fraudgate/internal/feature"
	"fraudgate/pkg/platform/circuit"
	"fraudgate/pkg/platform/sentinel"
)

// Breakered wraps a scorer with a circuit breaker. While the circuit is open,
// calls fail fast with ErrScorerUnavailable instead of burning the scorer
// timeout on an endpoint that keeps failing.
func Breakered(s Scorer, b *circuit.Breaker) Scorer {
	return breakeredScorer{inner: s, breaker: b}
}

type breakeredScorer struct {
	inner   Scorer
	breaker *circuit.Breaker
}

func (s breakeredScorer) Score(ctx context.Context, v feature.Vector) (float64, error) {
	if !s.breaker.Allow() {
		return 0, fmt.Errorf("%s circuit open: %w", s.breaker.Name(), sentinel.ErrScorerUnavailable)
	}

	score, err := s.inner.Score(ctx, v)
	if err != nil {
		s.breaker.RecordFailure()
		return 0, err
	}
	s.breaker.RecordSuccess()
	return score, nil
}
