package session

import "time"

// TTL is the fixed session lifetime: every session expires 24 hours
// after creation.
const TTL = 24 * time.Hour

// SweepInterval is how often the background sweeper deletes expired rows
const SweepInterval = time.Hour

// Session represents an authenticated student session
type Session struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
