package handler

import (
	"fraudgate/internal/decisionlog"
	"fraudgate/internal/domain"
	"fraudgate/internal/platform/config"
)

// VerdictResponse is the HTTP response for POST /api/v1/decision.
type VerdictResponse struct {
	UserID        string   `json:"user_id"`
	TransactionID string   `json:"transaction_id"`
	Action        string   `json:"action"`
	Reason        string   `json:"reason"`
	RiskScore     float64  `json:"risk_score"`
	AnomalyScore  float64  `json:"anomaly_score"`
	Degraded      []string `json:"degraded,omitempty"`
}

// FromVerdict converts a domain verdict to an HTTP response.
func FromVerdict(v *domain.Verdict) *VerdictResponse {
	return &VerdictResponse{
		UserID:        v.UserID,
		TransactionID: v.TransactionID,
		Action:        string(v.Action),
		Reason:        v.Reason,
		RiskScore:     v.RiskScore,
		AnomalyScore:  v.AnomalyScore,
		Degraded:      v.Degraded,
	}
}

// HistoryResponse is the HTTP response for GET /api/v1/history.
type HistoryResponse struct {
	Records []decisionlog.Record `json:"records"`
	Count   int                  `json:"count"`
}

// ConfigResponse exposes the active engine thresholds, read-only.
type ConfigResponse struct {
	WindowSeconds         int     `json:"window_seconds"`
	VelocityThreshold     int     `json:"velocity_threshold"`
	GeoEnabled            bool    `json:"geo_enabled"`
	AmountZScoreThreshold float64 `json:"amount_zscore_threshold"`
	NightStartHour        int     `json:"night_start_hour"`
	NightEndHour          int     `json:"night_end_hour"`
	BlockThreshold        float64 `json:"block_threshold"`
	FlagThreshold         float64 `json:"flag_threshold"`
	AnomalyThreshold      float64 `json:"anomaly_threshold"`
	VelocityFailPolicy    string  `json:"velocity_fail_policy"`
}

// FromConfig projects the process configuration onto its public view.
// Connection strings and the signing key are never exposed.
func FromConfig(cfg config.Config) *ConfigResponse {
	return &ConfigResponse{
		WindowSeconds:         int(cfg.Window.Seconds()),
		VelocityThreshold:     cfg.Rules.VelocityThreshold,
		GeoEnabled:            cfg.Rules.GeoEnabled,
		AmountZScoreThreshold: cfg.Rules.AmountZScoreThreshold,
		NightStartHour:        cfg.Rules.NightStartHour,
		NightEndHour:          cfg.Rules.NightEndHour,
		BlockThreshold:        cfg.Fusion.Block,
		FlagThreshold:         cfg.Fusion.Flag,
		AnomalyThreshold:      cfg.Fusion.Anomaly,
		VelocityFailPolicy:    string(cfg.VelocityFailPolicy),
	}
}
