package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time check that UserService implements cropdoc.UserService.
var _ cropdoc.UserService = (*UserService)(nil)

// UserService implements cropdoc.UserService using PostgreSQL.
type UserService struct {
	db *DB
}

var userColumns = []string{"id", "email", "display_name", "created_at"}

func scanUser(row pgx.Row) (*cropdoc.User, error) {
	var u cropdoc.User
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*cropdoc.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, cropdoc.Internal("Failed to build user query", err)
	}

	user, err := scanUser(s.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, cropdoc.NotFound("User not found")
		}
		return nil, cropdoc.Internal("Failed to fetch user", err)
	}
	return user, nil
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*cropdoc.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, cropdoc.Internal("Failed to build user query", err)
	}

	user, err := scanUser(s.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, cropdoc.NotFound("User not found")
		}
		return nil, cropdoc.Internal("Failed to fetch user", err)
	}
	return user, nil
}

// UpsertUser inserts the user, or on an email collision refreshes the
// display name and loads the existing row back into user.
func (s *UserService) UpsertUser(ctx context.Context, user *cropdoc.User) error {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.DisplayName, user.CreatedAt).
		Suffix("ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name").
		Suffix("RETURNING id, email, display_name, created_at").
		ToSql()
	if err != nil {
		return cropdoc.Internal("Failed to build user upsert", err)
	}

	existing, err := scanUser(s.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return cropdoc.Internal("Failed to upsert user", err)
	}

	*user = *existing
	return nil
}
