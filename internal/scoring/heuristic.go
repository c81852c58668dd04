package scoring

import (
	"context"
	"math"

	"fraudgate/internal/feature"
)

// HeuristicRiskScorer is the built-in fallback used when no model serving
// endpoint is configured. It maps the feature vector through a fixed logistic
// so local development and tests get stable, explainable scores. It is not a
// trained model.
type HeuristicRiskScorer struct{}

func (HeuristicRiskScorer) Score(_ context.Context, v feature.Vector) (float64, error) {
	x := -3.0
	x += 0.45 * float64(v.TxnCountInWindow)
	x += 0.6 * clamp(v.AmountZScore, 0, 6)
	if v.IsNewCountry && v.TxnCountInWindow > 0 {
		x += 1.2
	}
	if v.HourOfDay <= 4 {
		x += 0.5
	}
	return 1 / (1 + math.Exp(-x)), nil
}

// HeuristicAnomalyScorer scores deviation from the user's recent rhythm:
// large amount z-scores and unusually tight inter-arrival gaps push the score
// toward 1.
type HeuristicAnomalyScorer struct{}

func (HeuristicAnomalyScorer) Score(_ context.Context, v feature.Vector) (float64, error) {
	score := clamp(math.Abs(v.AmountZScore)/6, 0, 0.6)
	if v.TxnCountInWindow > 0 && v.SecondsSinceLast < 10 {
		score += 0.25
	}
	if v.DistinctCountries > 2 {
		score += 0.15
	}
	return clamp(score, 0, 1), nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
