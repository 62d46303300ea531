package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/patrickmn/go-cache"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time check that SessionService implements cropdoc.SessionService.
var _ cropdoc.SessionService = (*SessionService)(nil)

// SessionService implements cropdoc.SessionService using PostgreSQL with an
// in-memory read-through cache. Cached sessions expire after five minutes,
// which bounds how long a deleted session on another instance stays valid.
type SessionService struct {
	db    *DB
	cache *cache.Cache
}

// NewSessionService creates a session service with its token cache.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{
		db:    db,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

var sessionColumns = []string{"id", "user_id", "token", "expires_at", "created_at"}

func scanSession(row pgx.Row) (*cropdoc.Session, error) {
	var s cropdoc.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// generateSessionToken returns a hex-encoded random token.
func generateSessionToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *SessionService) CreateSession(ctx context.Context, userID uuid.UUID, duration time.Duration) (*cropdoc.Session, error) {
	token, err := generateSessionToken(32)
	if err != nil {
		return nil, cropdoc.Internal("Failed to generate session token", err)
	}

	now := time.Now()
	query, args, err := psql.Insert("sessions").
		Columns("user_id", "token", "expires_at", "created_at").
		Values(userID, token, now.Add(duration), now).
		Suffix("RETURNING id, user_id, token, expires_at, created_at").
		ToSql()
	if err != nil {
		return nil, cropdoc.Internal("Failed to build session insert", err)
	}

	session, err := scanSession(s.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, cropdoc.NotFound("User not found")
		}
		return nil, cropdoc.Internal("Failed to create session", err)
	}

	s.cache.Set(session.Token, session, cache.DefaultExpiration)
	return session, nil
}

func (s *SessionService) FindSessionByToken(ctx context.Context, token string) (*cropdoc.Session, error) {
	if cached, ok := s.cache.Get(token); ok {
		session := cached.(*cropdoc.Session)
		if session.IsExpired() {
			s.cache.Delete(token)
			return nil, cropdoc.Unauthorized("Session expired")
		}
		return session, nil
	}

	query, args, err := psql.Select(
		"s.id", "s.user_id", "s.token", "s.expires_at", "s.created_at",
		"u.id", "u.email", "u.display_name", "u.created_at",
	).
		From("sessions s").
		Join("users u ON u.id = s.user_id").
		Where(sq.Eq{"s.token": token}).
		ToSql()
	if err != nil {
		return nil, cropdoc.Internal("Failed to build session query", err)
	}

	var session cropdoc.Session
	var user cropdoc.User
	err = s.db.pool.QueryRow(ctx, query, args...).Scan(
		&session.ID, &session.UserID, &session.Token, &session.ExpiresAt, &session.CreatedAt,
		&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, cropdoc.Unauthorized("Session not found or expired")
		}
		return nil, cropdoc.Internal("Failed to fetch session", err)
	}
	session.User = &user

	if session.IsExpired() {
		return nil, cropdoc.Unauthorized("Session expired")
	}

	s.cache.Set(session.Token, &session, cache.DefaultExpiration)
	return &session, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	query, args, err := psql.Delete("sessions").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return cropdoc.Internal("Failed to build session delete", err)
	}

	if _, err := s.db.pool.Exec(ctx, query, args...); err != nil {
		return cropdoc.Internal("Failed to delete session", err)
	}

	s.cache.Delete(token)
	return nil
}

func (s *SessionService) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	query, args, err := psql.Delete("sessions").
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING token").
		ToSql()
	if err != nil {
		return cropdoc.Internal("Failed to build session delete", err)
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return cropdoc.Internal("Failed to delete user sessions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return cropdoc.Internal("Failed to scan deleted session", err)
		}
		s.cache.Delete(token)
	}
	return rows.Err()
}

func (s *SessionService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	query, args, err := psql.Delete("sessions").
		Where(sq.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, cropdoc.Internal("Failed to build session cleanup", err)
	}

	tag, err := s.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, cropdoc.Internal("Failed to cleanup expired sessions", err)
	}
	return int(tag.RowsAffected()), nil
}
