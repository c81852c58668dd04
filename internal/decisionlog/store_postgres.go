package decisionlog

import (
	"context"
	"database/sql"
	"fmt"

	"fraudgate/internal/domain"
)

// PostgresStore persists decision records in the decision_records table. The
// schema lives in migrations/ and is applied with goose at startup.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store on an already-open database handle. The
// handle lifecycle is managed by the caller.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append implements Store. Inserts are idempotent on (user_id,
// transaction_id) so a replayed decision never duplicates its record.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO decision_records (
			id, user_id, transaction_id, amount, country,
			transaction_at, action, reason, risk_score, anomaly_score, decided_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, transaction_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.TransactionID,
		rec.Amount,
		rec.Country,
		rec.TransactionAt,
		string(rec.Action),
		rec.Reason,
		rec.RiskScore,
		rec.AnomalyScore,
		rec.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision record: %w", err)
	}
	return nil
}

// ListRecent implements Store.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, transaction_id, amount, country,
		       transaction_at, action, reason, risk_score, anomaly_score, decided_at
		FROM decision_records
		ORDER BY decided_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query decision records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var action string
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.TransactionID,
			&rec.Amount,
			&rec.Country,
			&rec.TransactionAt,
			&action,
			&rec.Reason,
			&rec.RiskScore,
			&rec.AnomalyScore,
			&rec.DecidedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan decision record: %w", err)
		}
		rec.Action = domain.Action(action)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision records: %w", err)
	}
	return records, nil
}
