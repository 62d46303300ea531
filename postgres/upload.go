package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time check that UploadService implements cropdoc.UploadService.
var _ cropdoc.UploadService = (*UploadService)(nil)

// UploadService implements cropdoc.UploadService using PostgreSQL.
type UploadService struct {
	db *DB
}

// uploadColumns is the select list shared by all upload queries.
var uploadColumns = []string{
	"id", "user_id", "name", "plant_type", "storage_key",
	"content_type", "status", "diagnosis_key", "created_at",
}

func scanUpload(row pgx.Row) (*cropdoc.UploadRecord, error) {
	var r cropdoc.UploadRecord
	err := row.Scan(
		&r.ID, &r.UserID, &r.Name, &r.PlantType, &r.StorageKey,
		&r.ContentType, &r.Status, &r.DiagnosisKey, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *UploadService) CreateUpload(ctx context.Context, record *cropdoc.UploadRecord) error {
	query, args, err := psql.Insert("uploads").
		Columns(uploadColumns...).
		Values(
			record.ID, record.UserID, record.Name, record.PlantType,
			record.StorageKey, record.ContentType, record.Status,
			record.DiagnosisKey, record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return cropdoc.Internal("Failed to build upload insert", err)
	}

	if _, err := s.db.pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return cropdoc.Conflict("An upload already exists for this storage key")
		}
		if isForeignKeyViolation(err) {
			return cropdoc.NotFound("User not found")
		}
		return cropdoc.Internal("Failed to create upload", err)
	}
	return nil
}

func (s *UploadService) FindUploadByID(ctx context.Context, id uuid.UUID) (*cropdoc.UploadRecord, error) {
	query, args, err := psql.Select(uploadColumns...).
		From("uploads").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, cropdoc.Internal("Failed to build upload query", err)
	}

	record, err := scanUpload(s.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, cropdoc.NotFound("Upload not found")
		}
		return nil, cropdoc.Internal("Failed to fetch upload", err)
	}
	return record, nil
}

func (s *UploadService) FindUploads(ctx context.Context, filter cropdoc.UploadFilter) ([]*cropdoc.UploadRecord, int, error) {
	where := sq.And{sq.Eq{"user_id": filter.UserID}}
	if filter.PlantType != nil {
		where = append(where, sq.Eq{"plant_type": *filter.PlantType})
	}

	countQuery, countArgs, err := psql.Select("count(*)").
		From("uploads").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, cropdoc.Internal("Failed to build upload count query", err)
	}

	var total int
	if err := s.db.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, cropdoc.Internal("Failed to count uploads", err)
	}

	builder := psql.Select(uploadColumns...).
		From("uploads").
		Where(where).
		OrderBy("created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, cropdoc.Internal("Failed to build upload list query", err)
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, cropdoc.Internal("Failed to list uploads", err)
	}
	defer rows.Close()

	records := []*cropdoc.UploadRecord{}
	for rows.Next() {
		record, err := scanUpload(rows)
		if err != nil {
			return nil, 0, cropdoc.Internal("Failed to scan upload", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, cropdoc.Internal("Failed to read uploads", err)
	}

	return records, total, nil
}

func (s *UploadService) UpdateUploadStatus(ctx context.Context, id uuid.UUID, status cropdoc.DiagnosisStatus) error {
	if !status.Valid() {
		return cropdoc.Invalid("Unknown diagnosis status %q", status)
	}

	query, args, err := psql.Update("uploads").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return cropdoc.Internal("Failed to build status update", err)
	}

	tag, err := s.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return cropdoc.Internal("Failed to update upload status", err)
	}
	if tag.RowsAffected() == 0 {
		return cropdoc.NotFound("Upload not found")
	}
	return nil
}

func (s *UploadService) DeleteUpload(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("uploads").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return cropdoc.Internal("Failed to build upload delete", err)
	}

	tag, err := s.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return cropdoc.Internal("Failed to delete upload", err)
	}
	if tag.RowsAffected() == 0 {
		return cropdoc.NotFound("Upload not found")
	}
	return nil
}
