// Package fusion combines rule hits and the two model scores into the final
// action. The policy is a deterministic decision table evaluated top to
// bottom, first match wins, so any verdict can be replayed from its inputs.
package fusion

import (
	"fraudgate/internal/domain"
	"fraudgate/internal/rules"
)

// Thresholds configure the decision table. Built once at startup.
type Thresholds struct {
	Block   float64
	Flag    float64
	Anomaly float64
}

// DefaultThresholds returns the stock fusion thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Block: 0.85, Flag: 0.5, Anomaly: 0.7}
}

// Model-driven reasons, used when no rule hit supplies one.
const (
	ReasonHighFraudProbability = "High fraud probability"
	ReasonElevatedRisk         = "Elevated risk score"
	ReasonAnomalousBehavior    = "Anomalous behavior pattern"
	ReasonNormal               = "Normal transaction"
)

// Fuse applies the decision table:
//
//  1. Any HIGH rule hit, or risk at or above the block threshold, blocks.
//     Rules and the supervised model jointly gate BLOCK: known-pattern
//     detection is as trustworthy as the trained classifier.
//  2. Any rule hit, or either score at or above its flag threshold, flags.
//     The anomaly score alone never blocks: unsupervised scores carry higher
//     false-positive risk and route to human review instead.
//  3. Everything else is allowed.
//
// The reason is the message of the first qualifying rule hit in evaluation
// order; model-driven outcomes check risk before anomaly.
func Fuse(hits []rules.Hit, riskScore, anomalyScore float64, t Thresholds) (domain.Action, string) {
	if hit, ok := firstWithSeverity(hits, rules.SeverityHigh); ok {
		return domain.ActionBlock, hit.Message
	}
	if riskScore >= t.Block {
		return domain.ActionBlock, ReasonHighFraudProbability
	}

	if len(hits) > 0 {
		return domain.ActionFlag, hits[0].Message
	}
	if riskScore >= t.Flag {
		return domain.ActionFlag, ReasonElevatedRisk
	}
	if anomalyScore >= t.Anomaly {
		return domain.ActionFlag, ReasonAnomalousBehavior
	}

	return domain.ActionAllow, ReasonNormal
}

func firstWithSeverity(hits []rules.Hit, severity rules.Severity) (rules.Hit, bool) {
	for _, h := range hits {
		if h.Severity == severity {
			return h, true
		}
	}
	return rules.Hit{}, false
}
