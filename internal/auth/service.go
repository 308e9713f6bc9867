// Package auth implements password authentication for the portal:
// signup, login, logout, session resolution, and profile updates.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"feeportal/internal/session"
	"feeportal/internal/student"
)

// bcryptCost is the fixed work factor for password hashing
const bcryptCost = 12

var (
	// ErrMissingFields is returned when a required field is empty
	ErrMissingFields = errors.New("required fields are missing")
	// ErrInvalidCredentials is returned for both an unknown identifier
	// and a wrong password. The two cases must stay indistinguishable to
	// avoid a user-enumeration side channel.
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	// ErrUnauthorized is returned when the session is missing or invalid
	ErrUnauthorized = errors.New("not authenticated")
)

// Service defines the authentication operations
type Service interface {
	Signup(ctx context.Context, name, email, password string) (*student.Student, *session.Session, error)
	Login(ctx context.Context, identifier, password string) (*student.Student, *session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*student.Student, error)
	UpdateProfile(ctx context.Context, sessionID, name, email string) (*student.Student, error)
}

type service struct {
	students student.Repository
	sessions session.Manager
}

// NewService creates a new authentication service
func NewService(students student.Repository, sessions session.Manager) Service {
	return &service{students: students, sessions: sessions}
}

// Signup registers a new student and immediately opens a session. The
// raw password is never stored; new students start with fees unpaid.
func (s *service) Signup(ctx context.Context, name, email, password string) (*student.Student, *session.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, nil, ErrMissingFields
	}

	if _, err := s.students.FindByIdentifier(ctx, email); err == nil {
		return nil, nil, student.ErrEmailTaken
	} else if !errors.Is(err, student.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing student: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.students.Create(ctx, name, email, string(hash))
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Create(ctx, created.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return created, sess, nil
}

// Login verifies the identifier and password and opens a session. Both
// an unknown identifier and a password mismatch return
// ErrInvalidCredentials so callers cannot tell the cases apart.
func (s *service) Login(ctx context.Context, identifier, password string) (*student.Student, *session.Session, error) {
	if identifier == "" || password == "" {
		return nil, nil, ErrMissingFields
	}

	found, err := s.students.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up student: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, found.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return found, sess, nil
}

// Logout destroys the session. It always succeeds from the caller's
// perspective, even when the session was already gone.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// CurrentUser resolves the session and loads the owning student
func (s *service) CurrentUser(ctx context.Context, sessionID string) (*student.Student, error) {
	sess, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	found, err := s.students.FindByID(ctx, sess.StudentID)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return found, nil
}

// UpdateProfile changes the caller's name and email. Keeping the
// current email is not a conflict; taking another student's email is.
func (s *service) UpdateProfile(ctx context.Context, sessionID, name, email string) (*student.Student, error) {
	sess, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrMissingFields
	}

	return s.students.Update(ctx, sess.StudentID, name, email)
}
