package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface checks
var (
	_ cropdoc.UserService      = (*UserService)(nil)
	_ cropdoc.IdentityVerifier = (*IdentityVerifier)(nil)
)

// UserService is a mock implementation of cropdoc.UserService.
type UserService struct {
	FindUserByIDFn    func(ctx context.Context, id uuid.UUID) (*cropdoc.User, error)
	FindUserByEmailFn func(ctx context.Context, email string) (*cropdoc.User, error)
	UpsertUserFn      func(ctx context.Context, user *cropdoc.User) error
}

func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*cropdoc.User, error) {
	if s.FindUserByIDFn != nil {
		return s.FindUserByIDFn(ctx, id)
	}
	return nil, cropdoc.NotFound("user %q not found", id)
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*cropdoc.User, error) {
	if s.FindUserByEmailFn != nil {
		return s.FindUserByEmailFn(ctx, email)
	}
	return nil, cropdoc.NotFound("user %q not found", email)
}

func (s *UserService) UpsertUser(ctx context.Context, user *cropdoc.User) error {
	if s.UpsertUserFn != nil {
		return s.UpsertUserFn(ctx, user)
	}
	return nil
}

// IdentityVerifier is a mock implementation of cropdoc.IdentityVerifier.
type IdentityVerifier struct {
	VerifyFn func(ctx context.Context, token string) (*cropdoc.Identity, error)
}

func (v *IdentityVerifier) Verify(ctx context.Context, token string) (*cropdoc.Identity, error) {
	if v.VerifyFn != nil {
		return v.VerifyFn(ctx, token)
	}
	return nil, cropdoc.Unauthorized("invalid identity token")
}
