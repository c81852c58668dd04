package scoring

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/feature"
	"fraudgate/pkg/platform/sentinel"
)

type fixedScorer struct {
	score float64
	err   error
}

func (f fixedScorer) Score(context.Context, feature.Vector) (float64, error) {
	return f.score, f.err
}

func TestValidated(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through a score in range", func(t *testing.T) {
		score, err := Validated(fixedScorer{score: 0.42}).Score(ctx, feature.Vector{})
		require.NoError(t, err)
		assert.Equal(t, 0.42, score)
	})

	t.Run("rejects out-of-range and non-finite output", func(t *testing.T) {
		for _, bad := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
			_, err := Validated(fixedScorer{score: bad}).Score(ctx, feature.Vector{})
			assert.ErrorIs(t, err, sentinel.ErrScorerContract)
		}
	})

	t.Run("propagates inner errors unchanged", func(t *testing.T) {
		inner := errors.New("boom")
		_, err := Validated(fixedScorer{err: inner}).Score(ctx, feature.Vector{})
		assert.ErrorIs(t, err, inner)
	})
}

func TestRemoteScorer(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the vector and parses the score", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"score": 0.92}`))
		}))
		defer srv.Close()

		score, err := NewRemoteScorer(srv.URL, srv.Client()).Score(ctx, feature.Vector{Amount: 7000})
		require.NoError(t, err)
		assert.Equal(t, 0.92, score)
	})

	t.Run("non-200 surfaces as scorer unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewRemoteScorer(srv.URL, srv.Client()).Score(ctx, feature.Vector{})
		assert.ErrorIs(t, err, sentinel.ErrScorerUnavailable)
	})

	t.Run("garbage body surfaces as contract violation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := NewRemoteScorer(srv.URL, srv.Client()).Score(ctx, feature.Vector{})
		assert.ErrorIs(t, err, sentinel.ErrScorerContract)
	})

	t.Run("unreachable endpoint surfaces as scorer unavailable", func(t *testing.T) {
		_, err := NewRemoteScorer("http://127.0.0.1:1", nil).Score(ctx, feature.Vector{})
		assert.ErrorIs(t, err, sentinel.ErrScorerUnavailable)
	})
}

func TestHeuristicScorers_StayInRange(t *testing.T) {
	ctx := context.Background()
	vectors := []feature.Vector{
		{},
		{TxnCountInWindow: 50, AmountZScore: 100, IsNewCountry: true, HourOfDay: 2},
		{AmountZScore: -100, SecondsSinceLast: 1, TxnCountInWindow: 1, DistinctCountries: 5},
	}

	for _, v := range vectors {
		risk, err := Validated(HeuristicRiskScorer{}).Score(ctx, v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, risk, 0.0)
		assert.LessOrEqual(t, risk, 1.0)

		anomaly, err := Validated(HeuristicAnomalyScorer{}).Score(ctx, v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, anomaly, 0.0)
		assert.LessOrEqual(t, anomaly, 1.0)
	}
}

func TestHeuristicScorers_Deterministic(t *testing.T) {
	ctx := context.Background()
	v := feature.Vector{TxnCountInWindow: 3, AmountZScore: 2.5, IsNewCountry: true, HourOfDay: 14}

	r1, _ := HeuristicRiskScorer{}.Score(ctx, v)
	r2, _ := HeuristicRiskScorer{}.Score(ctx, v)
	assert.Equal(t, r1, r2)

	a1, _ := HeuristicAnomalyScorer{}.Score(ctx, v)
	a2, _ := HeuristicAnomalyScorer{}.Score(ctx, v)
	assert.Equal(t, a1, a2)
}
