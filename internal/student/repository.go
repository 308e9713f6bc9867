// Package student implements the credential store and roster queries for
// student records.
package student

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no student matches the lookup
	ErrNotFound = errors.New("student not found")
	// ErrEmailTaken is returned when the email is already registered to
	// a different student
	ErrEmailTaken = errors.New("email already registered")
)

// Repository defines the credential store operations. The email column
// doubles as the login username, so FindByIdentifier matches a single
// field (case-sensitive).
type Repository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*Student, error)
	FindByID(ctx context.Context, id string) (*Student, error)
	Create(ctx context.Context, name, email, passwordHash string) (*Student, error)
	Update(ctx context.Context, id, name, email string) (*Student, error)
	SetFeesPaid(ctx context.Context, id string) (*Student, error)

	// ListAll returns projections of every student, newest first.
	ListAll(ctx context.Context) ([]Projection, error)
}
