// Package feature derives the fixed-shape feature vector consumed by the rule
// engine and the model scorers. Build is a pure function of the current
// transaction and its window-filtered history; there is no hidden state.
package feature

import (
	"math"

	"fraudgate/internal/domain"
)

// Vector is the fixed set of features derived for one transaction.
type Vector struct {
	// TxnCountInWindow counts the prior window entries; the transaction under
	// evaluation is not included.
	TxnCountInWindow int `json:"transaction_count_in_window"`

	// DistinctCountries counts unique countries across the history plus the
	// current transaction.
	DistinctCountries int `json:"distinct_countries_in_window"`

	// AmountZScore is (amount - mean(history)) / stddev(history), 0 when the
	// history has fewer than two entries or zero spread.
	AmountZScore float64 `json:"amount_zscore_vs_recent_avg"`

	// SecondsSinceLast is the gap to the most recent history entry, 0 when the
	// history is empty.
	SecondsSinceLast float64 `json:"seconds_since_last_txn"`

	// HourOfDay is taken in the transaction timestamp's own offset.
	HourOfDay int `json:"hour_of_day"`

	// IsNewCountry is true iff the transaction's country does not appear in
	// the history.
	IsNewCountry bool `json:"is_new_country_for_user"`

	Amount float64 `json:"amount"`
}

// Build derives the feature vector. History must already be window-filtered by
// the velocity store and ordered oldest first. Build is total: an empty
// history yields sentinel defaults rather than an error.
func Build(txn domain.Transaction, history []domain.Summary) Vector {
	v := Vector{
		TxnCountInWindow: len(history),
		HourOfDay:        txn.Timestamp.Hour(),
		Amount:           txn.Amount,
		IsNewCountry:     true,
	}

	countries := map[string]struct{}{txn.LocationCountry: {}}
	for _, h := range history {
		countries[h.Country] = struct{}{}
		if h.Country == txn.LocationCountry {
			v.IsNewCountry = false
		}
	}
	v.DistinctCountries = len(countries)

	if len(history) > 0 {
		last := history[len(history)-1].Timestamp
		v.SecondsSinceLast = txn.Timestamp.Sub(last).Seconds()
	}

	v.AmountZScore = amountZScore(txn.Amount, history)

	return v
}

// amountZScore measures how far the amount sits from the recent mean, in units
// of the population standard deviation. Degenerate histories score 0.
func amountZScore(amount float64, history []domain.Summary) float64 {
	if len(history) < 2 {
		return 0
	}

	var sum float64
	for _, h := range history {
		sum += h.Amount
	}
	mean := sum / float64(len(history))

	var variance float64
	for _, h := range history {
		d := h.Amount - mean
		variance += d * d
	}
	variance /= float64(len(history))

	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return 0
	}
	return (amount - mean) / stddev
}
