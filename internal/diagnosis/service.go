// Package diagnosis implements crop diagnosis retrieval and the background
// job that produces diagnosis artifacts.
package diagnosis

import (
	"context"
	"log/slog"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.DiagnosisService = (*Service)(nil)

// Service implements cropdoc.DiagnosisService over object storage. The
// artifact for an upload lives at the record's diagnosis key; until the
// background job writes it, lookups return ENOTFOUND.
type Service struct {
	storage cropdoc.FileStorage
	logger  *slog.Logger
}

// NewService creates a diagnosis retrieval service.
func NewService(storage cropdoc.FileStorage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// FetchDiagnosis retrieves the diagnosis artifact for an upload record.
func (s *Service) FetchDiagnosis(ctx context.Context, record *cropdoc.UploadRecord) (*cropdoc.Diagnosis, error) {
	data, err := s.storage.Download(ctx, record.DiagnosisKey)
	if err != nil {
		// ENOTFOUND means not diagnosed yet; callers show a fallback.
		return nil, err
	}

	diagnosis := &cropdoc.Diagnosis{
		UploadID: record.ID,
		Name:     record.Name,
		Text:     string(data),
		Status:   record.Status,
	}

	// A malformed key only costs the capture timestamp.
	if ts, err := cropdoc.TimestampFromKey(record.StorageKey); err == nil {
		diagnosis.CapturedAt = &ts
	} else {
		s.logger.Warn("could not parse capture time from storage key",
			slog.String("storage_key", record.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	return diagnosis, nil
}
