// Package rules evaluates the deterministic fraud checks. Evaluation is pure
// and ordered: hits come back in the fixed order below so downstream reason
// selection stays auditable.
package rules

import (
	"fraudgate/internal/domain"
	"fraudgate/internal/feature"
)

// Severity orders rule hits: LOW < MEDIUM < HIGH.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Hit is one triggered rule. Produced fresh per request, never persisted on
// its own.
type Hit struct {
	Rule     string
	Severity Severity
	Message  string
}

// Config holds the rule thresholds. Built once at startup, immutable after.
type Config struct {
	// VelocityThreshold is the transaction count, including the transaction
	// under evaluation, at which the velocity rule fires.
	VelocityThreshold int

	GeoEnabled bool

	AmountZScoreThreshold float64

	// NightStartHour..NightEndHour is the inclusive odd-hour band, in the
	// transaction timestamp's own offset. A band that wraps midnight
	// (e.g. 22..5) is supported.
	NightStartHour int
	NightEndHour   int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		VelocityThreshold:     5,
		GeoEnabled:            true,
		AmountZScoreThreshold: 3.0,
		NightStartHour:        0,
		NightEndHour:          4,
	}
}

// Rule messages double as verdict reasons, so they are fixed strings.
const (
	msgVelocity    = "High transaction velocity"
	msgGeoJump     = "Geo-location change"
	msgAmountSpike = "Sudden amount spike"
	msgOddHour     = "Unusual transaction time"
)

// Evaluate runs every rule against the transaction and its features. Rules are
// independent and non-exclusive: all applicable rules fire in one pass.
func Evaluate(cfg Config, txn domain.Transaction, v feature.Vector) []Hit {
	var hits []Hit

	// 1. Velocity: the transaction under evaluation counts toward the
	// threshold, so the Nth transaction inside the window trips a threshold
	// of N.
	if v.TxnCountInWindow+1 >= cfg.VelocityThreshold {
		hits = append(hits, Hit{Rule: "velocity", Severity: SeverityHigh, Message: msgVelocity})
	}

	// 2. Geo-jump: a country change mid-window. A user's first-ever
	// transaction has no window history and never fires.
	if cfg.GeoEnabled && v.IsNewCountry && v.TxnCountInWindow > 0 {
		hits = append(hits, Hit{Rule: "geo_jump", Severity: SeverityMedium, Message: msgGeoJump})
	}

	// 3. Amount spike.
	if v.AmountZScore > cfg.AmountZScoreThreshold {
		hits = append(hits, Hit{Rule: "amount_spike", Severity: SeverityHigh, Message: msgAmountSpike})
	}

	// 4. Odd hour.
	if inNightBand(v.HourOfDay, cfg.NightStartHour, cfg.NightEndHour) {
		hits = append(hits, Hit{Rule: "odd_hour", Severity: SeverityLow, Message: msgOddHour})
	}

	return hits
}

func inNightBand(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour <= end
	}
	return hour >= start || hour <= end
}
