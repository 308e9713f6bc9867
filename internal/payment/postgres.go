package payment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"feeportal/internal/database"
)

// PostgresStore implements Store on top of the shared database service
type PostgresStore struct {
	db database.Service
}

// NewPostgresStore creates a new Postgres-backed payment store
func NewPostgresStore(db database.Service) *PostgresStore {
	return &PostgresStore{db: db}
}

// RecordCompleted inserts the payment and flips the student's fee flag
// in a single transaction.
func (s *PostgresStore) RecordCompleted(ctx context.Context, p *Payment) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO payments (id, student_id, amount, payment_method, transaction_id, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, insert,
			p.ID, p.StudentID, p.Amount, p.PaymentMethod, p.TransactionID, p.Status, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		tag, err := tx.Exec(ctx, `UPDATE students SET fees_paid = TRUE WHERE id = $1`, p.StudentID)
		if err != nil {
			return fmt.Errorf("failed to update fee status: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("fee status update affected %d rows for student %s", tag.RowsAffected(), p.StudentID)
		}

		return nil
	})
}

func (s *PostgresStore) ListByStudent(ctx context.Context, studentID string) ([]Payment, error) {
	query := `
		SELECT id, student_id, amount, payment_method, transaction_id, status, created_at
		FROM payments
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.StudentID, &p.Amount, &p.PaymentMethod, &p.TransactionID, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment rows: %w", err)
	}

	return payments, nil
}
