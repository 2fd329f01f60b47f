package session

import (
	"context"
	"time"

	"github.com/agilsa/GorbyJump/internal/auth"
)

// Session holds the linked identity for the duration of the browser's
// connection. The credential pair lives here server-side; the client
// mirror in durable storage is the durability boundary.
type Session struct {
	SessionID string        `json:"session_id"`
	Identity  auth.Identity `json:"identity"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Store defines how sessions are stored and retrieved. Implementations
// must treat sessions as opaque and keep no auth logic.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
