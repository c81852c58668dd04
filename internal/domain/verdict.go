package domain

// Action enumerates the possible verdicts for a transaction.
type Action string

const (
	ActionAllow Action = "ALLOW"
	ActionFlag  Action = "FLAG"
	ActionBlock Action = "BLOCK"
)

// Verdict is the final output of one decision cycle. It is created once per
// request and immutable after construction.
type Verdict struct {
	UserID        string
	TransactionID string
	Action        Action
	Reason        string
	RiskScore     float64
	AnomalyScore  float64

	// Degraded lists the signal sources that were unavailable while this
	// verdict was produced. Empty in normal operation.
	Degraded []string
}
