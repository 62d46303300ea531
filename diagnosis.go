package cropdoc

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiagnosisStatus tracks the lifecycle of an upload's diagnosis.
type DiagnosisStatus string

const (
	// DiagnosisPending means the diagnosis worker has not produced an
	// artifact yet. Absence of the artifact is never an error.
	DiagnosisPending DiagnosisStatus = "pending"

	DiagnosisComplete DiagnosisStatus = "diagnosed"
	DiagnosisFailed   DiagnosisStatus = "failed"
)

// Valid reports whether s is a known status value.
func (s DiagnosisStatus) Valid() bool {
	switch s {
	case DiagnosisPending, DiagnosisComplete, DiagnosisFailed:
		return true
	}
	return false
}

// DiagnosisSuffix terminates every diagnosis artifact key.
const DiagnosisSuffix = "_diagnosis.txt"

// DiagnosisKeyForImage derives the diagnosis artifact key from an image
// storage key: the filename stem replaces the images/ directory with
// diagnoses/ and gains the diagnosis suffix. For
// "u1/images/2024-05-01T12:00:00.000Z.jpg" this yields
// "u1/diagnoses/2024-05-01T12:00:00.000Z_diagnosis.txt".
func DiagnosisKeyForImage(imageKey string) string {
	stem := strings.TrimSuffix(path.Base(imageKey), ".jpg")
	userID, _, _ := strings.Cut(imageKey, "/")
	return userID + "/diagnoses/" + stem + DiagnosisSuffix
}

// TimestampFromKey parses the capture instant embedded in a storage key's
// filename stem. Callers must treat an error as "no date available" and
// degrade by omitting the date, not by failing the view.
func TimestampFromKey(imageKey string) (time.Time, error) {
	stem := strings.TrimSuffix(path.Base(imageKey), ".jpg")
	t, err := time.Parse(KeyTimeLayout, stem)
	if err != nil {
		return time.Time{}, Errorf(EINVALID, "Unparseable timestamp in key %q", imageKey)
	}
	return t, nil
}

// Diagnosis is the artifact view returned to callers: the diagnosis text
// plus the display metadata of the originating upload.
type Diagnosis struct {
	UploadID uuid.UUID       `json:"uploadId"`
	Name     string          `json:"name"`
	Text     string          `json:"text"`
	Status   DiagnosisStatus `json:"status"`

	// CapturedAt is parsed from the storage key's filename stem and is
	// nil when the stem does not parse.
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// DiagnosisService locates and fetches diagnosis artifacts.
type DiagnosisService interface {
	// FetchDiagnosis retrieves the artifact for an upload record.
	// Returns ENOTFOUND while the artifact does not exist yet; callers
	// render a fallback message rather than surfacing an error.
	// Returns EUNAVAILABLE on transport failure, which is distinct from
	// absence.
	FetchDiagnosis(ctx context.Context, record *UploadRecord) (*Diagnosis, error)
}
