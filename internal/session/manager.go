// Package session provides session management for the portal. Sessions
// are opaque bearer tokens bound to a student id with a fixed 24-hour
// expiry, persisted through a pluggable Store.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session is missing from the store
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session exists but has expired
	ErrSessionExpired = errors.New("session expired")
)

// Manager defines the interface for session management operations
type Manager interface {
	Create(ctx context.Context, studentID string) (*Session, error)
	Resolve(ctx context.Context, sessionID string) (*Session, error)
	Destroy(ctx context.Context, sessionID string) error
	Sweep(ctx context.Context) (int64, error)
}

type manager struct {
	store Store
}

// NewManager creates a new session manager backed by the given store
func NewManager(store Store) Manager {
	return &manager{store: store}
}

// Create generates a new opaque session for the student, expiring TTL
// from now. A student may hold any number of concurrent sessions.
func (m *manager) Create(ctx context.Context, studentID string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		StudentID: studentID,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}

	if err := m.store.Insert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resolve returns the session if it exists and has not expired. An
// expired session found here is deleted so later lookups fail the same
// way (lazy GC).
func (m *manager) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !time.Now().Before(sess.ExpiresAt) {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			slog.Warn("Failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Destroy removes a session. Destroying a session that is already gone
// is a no-op, not an error.
func (m *manager) Destroy(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Sweep bulk-deletes every expired session. Correctness does not depend
// on it; Resolve already enforces expiry lazily.
func (m *manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, time.Now())
}

// RunSweeper runs Sweep on a fixed interval until ctx is cancelled
func RunSweeper(ctx context.Context, mgr Manager, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := mgr.Sweep(ctx)
			if err != nil {
				logger.Error("Session sweep failed", "error", err)
				continue
			}
			logger.Info("Cleaned up expired sessions", "deleted", deleted)
		}
	}
}
