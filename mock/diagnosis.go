package mock

import (
	"context"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.DiagnosisService = (*DiagnosisService)(nil)

// DiagnosisService is a mock implementation of cropdoc.DiagnosisService.
type DiagnosisService struct {
	FetchDiagnosisFn func(ctx context.Context, record *cropdoc.UploadRecord) (*cropdoc.Diagnosis, error)
}

func (s *DiagnosisService) FetchDiagnosis(ctx context.Context, record *cropdoc.UploadRecord) (*cropdoc.Diagnosis, error) {
	if s.FetchDiagnosisFn != nil {
		return s.FetchDiagnosisFn(ctx, record)
	}
	return nil, cropdoc.NotFound("diagnosis for upload %q not found", record.ID)
}
