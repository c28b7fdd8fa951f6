package store

import (
	"context"
	"time"
)

// Session is the server-side half of a login.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	// Create saves the session; it expires at session.ExpiresAt.
	Create(ctx context.Context, session *Session) error

	// Get returns the session with the given id.
	// Returns ErrSessionNotFound if it never existed, expired or was deleted.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
