package domain

import (
	"time"

	dErrors "fraudgate/pkg/domain-errors"
)

// Transaction is the immutable input to one decision cycle. It is validated
// once at the boundary and never mutated afterwards.
type Transaction struct {
	UserID          string
	TransactionID   string
	Amount          float64
	LocationCountry string
	Timestamp       time.Time
}

// Validate enforces the inbound contract: required identifiers, a non-negative
// amount, and a parseable timestamp. It runs before any state mutation.
func (t Transaction) Validate() error {
	switch {
	case t.UserID == "":
		return dErrors.New(dErrors.CodeInvalidTransaction, "user_id is required")
	case t.TransactionID == "":
		return dErrors.New(dErrors.CodeInvalidTransaction, "transaction_id is required")
	case t.Amount < 0:
		return dErrors.New(dErrors.CodeInvalidTransaction, "amount must be non-negative")
	case t.LocationCountry == "":
		return dErrors.New(dErrors.CodeInvalidTransaction, "location_country is required")
	case t.Timestamp.IsZero():
		return dErrors.New(dErrors.CodeInvalidTransaction, "transaction_time is required")
	}
	return nil
}

// Summary is the slice of a transaction retained in the velocity window.
type Summary struct {
	Timestamp time.Time `json:"ts"`
	Amount    float64   `json:"amount"`
	Country   string    `json:"country"`
}

// Summarize projects the transaction onto its velocity-window summary.
func (t Transaction) Summarize() Summary {
	return Summary{Timestamp: t.Timestamp, Amount: t.Amount, Country: t.LocationCountry}
}
