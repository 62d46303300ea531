package cropdoc

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a grower account. Authentication is delegated to an
// external identity provider; this record only mirrors the verified
// identity so uploads and sessions can reference it.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserService defines operations for managing users.
type UserService interface {
	// FindUserByID retrieves a user by their ID.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindUserByEmail retrieves a user by email.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// UpsertUser creates a user for a verified external identity, or
	// returns the existing user for that email.
	UpsertUser(ctx context.Context, user *User) error
}

// Identity is an externally verified identity assertion.
type Identity struct {
	Email       string
	DisplayName string
}

// IdentityVerifier validates identity-provider assertions. The actual
// authentication flow lives with the provider; the daemon only exchanges
// a verified assertion for a session.
type IdentityVerifier interface {
	// Verify checks an identity token and returns the asserted identity.
	// Returns EUNAUTHORIZED if the token is invalid or expired.
	Verify(ctx context.Context, token string) (*Identity, error)
}

// IdentityConfig configures identity token verification.
type IdentityConfig struct {
	// Provider is the verification provider ("mock" or "http").
	Provider string

	// VerifyURL is the provider endpoint that validates tokens.
	VerifyURL string
}
