package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of cropdoc.SessionService.
type SessionService struct {
	CreateSessionFn          func(ctx context.Context, userID uuid.UUID, duration time.Duration) (*cropdoc.Session, error)
	FindSessionByTokenFn     func(ctx context.Context, token string) (*cropdoc.Session, error)
	DeleteSessionFn          func(ctx context.Context, token string) error
	DeleteUserSessionsFn     func(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredSessionsFn func(ctx context.Context) (int, error)
}

func (s *SessionService) CreateSession(ctx context.Context, userID uuid.UUID, duration time.Duration) (*cropdoc.Session, error) {
	if s.CreateSessionFn != nil {
		return s.CreateSessionFn(ctx, userID, duration)
	}
	return &cropdoc.Session{
		ID:        1,
		UserID:    userID,
		Token:     "mock-token",
		ExpiresAt: time.Now().Add(duration),
		CreatedAt: time.Now(),
	}, nil
}

func (s *SessionService) FindSessionByToken(ctx context.Context, token string) (*cropdoc.Session, error) {
	if s.FindSessionByTokenFn != nil {
		return s.FindSessionByTokenFn(ctx, token)
	}
	return nil, cropdoc.Unauthorized("invalid session")
}

func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	if s.DeleteSessionFn != nil {
		return s.DeleteSessionFn(ctx, token)
	}
	return nil
}

func (s *SessionService) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	if s.DeleteUserSessionsFn != nil {
		return s.DeleteUserSessionsFn(ctx, userID)
	}
	return nil
}

func (s *SessionService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	if s.CleanupExpiredSessionsFn != nil {
		return s.CleanupExpiredSessionsFn(ctx)
	}
	return 0, nil
}
