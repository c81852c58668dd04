// Package decisionlog persists the decision record produced for each scored
// transaction. Appends run off the request path through a channel-fed worker;
// the record is the audit trail for every verdict the engine returns.
package decisionlog

import (
	"time"

	"github.com/google/uuid"

	"fraudgate/internal/domain"
)

// Record is one persisted decision. It captures the transaction slice that was
// scored together with the verdict, so a decision can be audited without
// consulting any other store.
type Record struct {
	ID            uuid.UUID     `json:"id"`
	UserID        string        `json:"user_id"`
	TransactionID string        `json:"transaction_id"`
	Amount        float64       `json:"amount"`
	Country       string        `json:"country"`
	TransactionAt time.Time     `json:"transaction_at"`
	Action        domain.Action `json:"action"`
	Reason        string        `json:"reason"`
	RiskScore     float64       `json:"risk_score"`
	AnomalyScore  float64       `json:"anomaly_score"`
	DecidedAt     time.Time     `json:"decided_at"`
}

// FromVerdict builds a record from a transaction and its verdict.
func FromVerdict(txn domain.Transaction, v domain.Verdict, decidedAt time.Time) Record {
	return Record{
		ID:            uuid.New(),
		UserID:        v.UserID,
		TransactionID: v.TransactionID,
		Amount:        txn.Amount,
		Country:       txn.LocationCountry,
		TransactionAt: txn.Timestamp,
		Action:        v.Action,
		Reason:        v.Reason,
		RiskScore:     v.RiskScore,
		AnomalyScore:  v.AnomalyScore,
		DecidedAt:     decidedAt,
	}
}
