package handler

import (
	"time"

	"fraudgate/internal/domain"
	dErrors "fraudgate/pkg/domain-errors"
)

// DecisionRequest is the HTTP request body for POST /api/v1/decision.
type DecisionRequest struct {
	UserID          string  `json:"user_id"`
	TransactionID   string  `json:"transaction_id"`
	Amount          float64 `json:"amount"`
	LocationCountry string  `json:"location_country"`
	TransactionTime string  `json:"transaction_time"`
}

// timestamp layouts accepted on the wire: RFC 3339, plus the zoneless
// ISO-8601 form some upstream producers emit (interpreted as UTC).
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// ToTransaction parses the wire request into the domain transaction.
func (r DecisionRequest) ToTransaction() (domain.Transaction, error) {
	if r.TransactionTime == "" {
		return domain.Transaction{}, dErrors.New(dErrors.CodeInvalidTransaction, "transaction_time is required")
	}

	var ts time.Time
	var err error
	for _, layout := range timeLayouts {
		if ts, err = time.Parse(layout, r.TransactionTime); err == nil {
			break
		}
	}
	if err != nil || ts.IsZero() {
		return domain.Transaction{}, dErrors.New(dErrors.CodeInvalidTransaction,
			"transaction_time must be an ISO-8601 timestamp")
	}

	return domain.Transaction{
		UserID:          r.UserID,
		TransactionID:   r.TransactionID,
		Amount:          r.Amount,
		LocationCountry: r.LocationCountry,
		Timestamp:       ts,
	}, nil
}
