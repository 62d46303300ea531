package cropdoc

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session represents an active user session. A session is created when an
// externally verified identity signs in and is deleted on sign-out; it is
// the only carrier of user identity between requests.
type Session struct {
	ID        int       `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`

	// User is populated by lookups that join the owning user.
	User *User `json:"user,omitempty"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionService defines operations for managing user sessions.
type SessionService interface {
	// CreateSession creates a new session for a user.
	// Returns the session with a generated token.
	CreateSession(ctx context.Context, userID uuid.UUID, duration time.Duration) (*Session, error)

	// FindSessionByToken retrieves a session with its user.
	// Returns EUNAUTHORIZED if the session does not exist or has expired.
	FindSessionByToken(ctx context.Context, token string) (*Session, error)

	// DeleteSession deletes a session (sign-out).
	DeleteSession(ctx context.Context, token string) error

	// DeleteUserSessions deletes all sessions for a user.
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error

	// CleanupExpiredSessions removes expired sessions.
	// Returns the number of sessions deleted.
	CleanupExpiredSessions(ctx context.Context) (int, error)
}
