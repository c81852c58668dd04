// Package scoring defines the port for the externally trained models. The
// engine consumes scorers as opaque functions from a feature vector to a float
// in [0,1]; model internals live elsewhere.
package scoring

import (
	"context"
	"fmt"
	"math"

	"fraudgate/internal/feature"
	"fraudgate/pkg/platform/sentinel"
)

//go:generate mockgen -source=scorer.go -destination=mock/mock_scorer.go -package=mock

// Scorer produces one score for one feature vector. Implementations must be
// safe for concurrent use and honor context cancellation.
type Scorer interface {
	Score(ctx context.Context, v feature.Vector) (float64, error)
}

// Validated wraps a scorer with the output contract: the score must be a
// finite number in [0,1]. Anything else surfaces as ErrScorerContract so the
// engine can degrade instead of propagating garbage into fusion.
func Validated(s Scorer) Scorer {
	return contractScorer{inner: s}
}

type contractScorer struct {
	inner Scorer
}

func (c contractScorer) Score(ctx context.Context, v feature.Vector) (float64, error) {
	score, err := c.inner.Score(ctx, v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 1 {
		return 0, fmt.Errorf("score %v outside [0,1]: %w", score, sentinel.ErrScorerContract)
	}
	return score, nil
}
