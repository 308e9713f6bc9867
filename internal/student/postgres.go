package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"feeportal/internal/database"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements Repository on top of the shared database service
type PostgresRepository struct {
	db database.Service
}

// NewPostgresRepository creates a new Postgres-backed credential store
func NewPostgresRepository(db database.Service) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*Student, error) {
	query := `
		SELECT id, name, email, password_hash, fees_paid, created_at
		FROM students
		WHERE email = $1
	`

	s := &Student{}
	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.FeesPaid, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Student, error) {
	query := `
		SELECT id, name, email, password_hash, fees_paid, created_at
		FROM students
		WHERE id = $1
	`

	s := &Student{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.FeesPaid, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, name, email, passwordHash string) (*Student, error) {
	query := `
		INSERT INTO students (id, name, email, password_hash, fees_paid, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, name, email, password_hash, fees_paid, created_at
	`

	s := &Student{}
	err := r.db.QueryRow(ctx, query, uuid.New().String(), name, email, passwordHash).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.FeesPaid, &s.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, name, email string) (*Student, error) {
	query := `
		UPDATE students
		SET name = $2, email = $3
		WHERE id = $1
		RETURNING id, name, email, password_hash, fees_paid, created_at
	`

	s := &Student{}
	err := r.db.QueryRow(ctx, query, id, name, email).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.FeesPaid, &s.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) SetFeesPaid(ctx context.Context, id string) (*Student, error) {
	query := `
		UPDATE students
		SET fees_paid = TRUE
		WHERE id = $1
		RETURNING id, name, email, password_hash, fees_paid, created_at
	`

	s := &Student{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.FeesPaid, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update fee status: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Projection, error) {
	query := `
		SELECT id, name, email, fees_paid, created_at
		FROM students
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []Projection{}
	for rows.Next() {
		var p Projection
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.FeesPaid, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read student rows: %w", err)
	}

	return students, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
