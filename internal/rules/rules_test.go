package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/domain"
	"fraudgate/internal/feature"
)

var noon = time.Date(2025, 1, 18, 12, 30, 0, 0, time.UTC)

func txnAt(at time.Time) domain.Transaction {
	return domain.Transaction{
		UserID:          "usr-1",
		TransactionID:   "txn-1",
		Amount:          100,
		LocationCountry: "Germany",
		Timestamp:       at,
	}
}

func ruleNames(hits []Hit) []string {
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.Rule
	}
	return names
}

func TestEvaluate_Velocity(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("fires on the fifth transaction in the window", func(t *testing.T) {
		hits := Evaluate(cfg, txnAt(noon), feature.Vector{TxnCountInWindow: 4, HourOfDay: 12})
		require.Len(t, hits, 1)
		assert.Equal(t, "velocity", hits[0].Rule)
		assert.Equal(t, SeverityHigh, hits[0].Severity)
		assert.Equal(t, "High transaction velocity", hits[0].Message)
	})

	t.Run("does not fire below the threshold", func(t *testing.T) {
		hits := Evaluate(cfg, txnAt(noon), feature.Vector{TxnCountInWindow: 3, HourOfDay: 12})
		assert.Empty(t, hits)
	})
}

func TestEvaluate_GeoJump(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("fires on a country change mid-window", func(t *testing.T) {
		hits := Evaluate(cfg, txnAt(noon), feature.Vector{TxnCountInWindow: 2, IsNewCountry: true, HourOfDay: 12})
		require.Len(t, hits, 1)
		assert.Equal(t, "geo_jump", hits[0].Rule)
		assert.Equal(t, SeverityMedium, hits[0].Severity)
		assert.Equal(t, "Geo-location change", hits[0].Message)
	})

	t.Run("does not fire on a first-ever transaction", func(t *testing.T) {
		hits := Evaluate(cfg, txnAt(noon), feature.Vector{TxnCountInWindow: 0, IsNewCountry: true, HourOfDay: 12})
		assert.Empty(t, hits)
	})

	t.Run("respects the geo_enabled toggle", func(t *testing.T) {
		disabled := cfg
		disabled.GeoEnabled = false
		hits := Evaluate(disabled, txnAt(noon), feature.Vector{TxnCountInWindow: 2, IsNewCountry: true, HourOfDay: 12})
		assert.Empty(t, hits)
	})
}

func TestEvaluate_AmountSpike(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("fires above the z-score threshold", func(t *testing.T) {
		hits := Evaluate(cfg, txnAt(noon), feature.Vector{AmountZScore: 3.5, HourOfDay: 12})
		require.Len(t, hits, 1)
		assert.Equal(t, "amount_spike", hits[0].Rule)
		assert.Equal(t, SeverityHigh, hits[0].Severity)
		assert.Equal(t, "Sudden amount spike", hits[0].Message)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		hits := Evaluate(cfg, txnAt(noon), feature.Vector{AmountZScore: 3.0, HourOfDay: 12})
		assert.Empty(t, hits)
	})
}

func TestEvaluate_OddHour(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("fires inside the default midnight band", func(t *testing.T) {
		for _, hour := range []int{0, 2, 4} {
			hits := Evaluate(cfg, txnAt(noon), feature.Vector{HourOfDay: hour})
			require.Len(t, hits, 1, "hour %d", hour)
			assert.Equal(t, "odd_hour", hits[0].Rule)
			assert.Equal(t, SeverityLow, hits[0].Severity)
			assert.Equal(t, "Unusual transaction time", hits[0].Message)
		}
	})

	t.Run("does not fire outside the band", func(t *testing.T) {
		for _, hour := range []int{5, 12, 23} {
			hits := Evaluate(cfg, txnAt(noon), feature.Vector{HourOfDay: hour})
			assert.Empty(t, hits, "hour %d", hour)
		}
	})

	t.Run("supports a band wrapping midnight", func(t *testing.T) {
		wrapped := cfg
		wrapped.NightStartHour = 22
		wrapped.NightEndHour = 5

		for _, hour := range []int{22, 23, 0, 5} {
			hits := Evaluate(wrapped, txnAt(noon), feature.Vector{HourOfDay: hour})
			require.Len(t, hits, 1, "hour %d", hour)
		}
		hits := Evaluate(wrapped, txnAt(noon), feature.Vector{HourOfDay: 12})
		assert.Empty(t, hits)
	})
}

func TestEvaluate_AllApplicableRulesFireInOrder(t *testing.T) {
	cfg := DefaultConfig()
	v := feature.Vector{
		TxnCountInWindow: 6,
		IsNewCountry:     true,
		AmountZScore:     4.2,
		HourOfDay:        2,
	}

	hits := Evaluate(cfg, txnAt(noon), v)
	assert.Equal(t, []string{"velocity", "geo_jump", "amount_spike", "odd_hour"}, ruleNames(hits))
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityLow < SeverityMedium)
	assert.True(t, SeverityMedium < SeverityHigh)
	assert.Equal(t, "HIGH", SeverityHigh.String())
	assert.Equal(t, "MEDIUM", SeverityMedium.String())
	assert.Equal(t, "LOW", SeverityLow.String())
}
