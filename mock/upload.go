package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.UploadService = (*UploadService)(nil)

// UploadService is a mock implementation of cropdoc.UploadService.
type UploadService struct {
	CreateUploadFn       func(ctx context.Context, record *cropdoc.UploadRecord) error
	FindUploadByIDFn     func(ctx context.Context, id uuid.UUID) (*cropdoc.UploadRecord, error)
	FindUploadsFn        func(ctx context.Context, filter cropdoc.UploadFilter) ([]*cropdoc.UploadRecord, int, error)
	UpdateUploadStatusFn func(ctx context.Context, id uuid.UUID, status cropdoc.DiagnosisStatus) error
	DeleteUploadFn       func(ctx context.Context, id uuid.UUID) error
}

func (s *UploadService) CreateUpload(ctx context.Context, record *cropdoc.UploadRecord) error {
	if s.CreateUploadFn != nil {
		return s.CreateUploadFn(ctx, record)
	}
	return nil
}

func (s *UploadService) FindUploadByID(ctx context.Context, id uuid.UUID) (*cropdoc.UploadRecord, error) {
	if s.FindUploadByIDFn != nil {
		return s.FindUploadByIDFn(ctx, id)
	}
	return nil, cropdoc.NotFound("upload %q not found", id)
}

func (s *UploadService) FindUploads(ctx context.Context, filter cropdoc.UploadFilter) ([]*cropdoc.UploadRecord, int, error) {
	if s.FindUploadsFn != nil {
		return s.FindUploadsFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *UploadService) UpdateUploadStatus(ctx context.Context, id uuid.UUID, status cropdoc.DiagnosisStatus) error {
	if s.UpdateUploadStatusFn != nil {
		return s.UpdateUploadStatusFn(ctx, id, status)
	}
	return nil
}

func (s *UploadService) DeleteUpload(ctx context.Context, id uuid.UUID) error {
	if s.DeleteUploadFn != nil {
		return s.DeleteUploadFn(ctx, id)
	}
	return nil
}
