package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence. Implementations
// must tolerate concurrent access from multiple requests.
type Store interface {
	Insert(ctx context.Context, s *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes every session with expiry at or before now
	// and returns how many rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
