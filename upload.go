package cropdoc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlantCategory is the closed set of plant types a submission may carry.
type PlantCategory string

const (
	PlantCassava    PlantCategory = "Cassava"
	PlantCashew     PlantCategory = "Cashew"
	PlantPotato     PlantCategory = "Potato"
	PlantRice       PlantCategory = "Rice"
	PlantWheat      PlantCategory = "Wheat"
	PlantApple      PlantCategory = "Apple"
	PlantBellPepper PlantCategory = "Bell Pepper"
	PlantCherry     PlantCategory = "Cherry"
	PlantGrape      PlantCategory = "Grape"
	PlantPeach      PlantCategory = "Peach"
	PlantStrawberry PlantCategory = "Strawberry"

	// PlantInvalid is a selectable sentinel for images that do not match
	// any supported crop. It is a legitimate member of the set, not an
	// error value.
	PlantInvalid PlantCategory = "Invalid"
)

// PlantCategories lists every selectable category, in display order.
var PlantCategories = []PlantCategory{
	PlantCassava, PlantCashew, PlantPotato, PlantRice, PlantWheat,
	PlantApple, PlantBellPepper, PlantCherry, PlantGrape, PlantPeach,
	PlantStrawberry, PlantInvalid,
}

// ParsePlantCategory validates a raw string against the closed set.
func ParsePlantCategory(s string) (PlantCategory, error) {
	for _, c := range PlantCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Invalid("Unknown plant type %q", s)
}

// KeyTimeLayout is the ISO-8601 millisecond timestamp embedded in storage
// keys. Keys are unique per user only down to this granularity; two
// uploads in the same millisecond collide and surface as ECONFLICT.
const KeyTimeLayout = "2006-01-02T15:04:05.000Z"

// ImageKey builds the storage key for an upload: {userID}/images/{ts}.jpg.
func ImageKey(userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s/images/%s.jpg", userID, at.UTC().Format(KeyTimeLayout))
}

// Object metadata field names attached to uploaded images.
const (
	MetadataName      = "name"
	MetadataPlantType = "plantType"
)

// ImageContentType is the only content type the pipeline produces.
const ImageContentType = "image/jpeg"

// MaxUploadSize is the maximum allowed image size (5MB).
const MaxUploadSize = 5 * 1024 * 1024

// ValidatedSubmission holds user-supplied metadata that has passed
// validation.
type ValidatedSubmission struct {
	Name      string
	PlantType PlantCategory
}

// ValidateSubmission checks the display name and plant category for a
// submission. Both checks run independently and failures are collected
// into a single EINVALID error carrying one message per field, so the
// caller can surface every problem at once.
func ValidateSubmission(name string, category *PlantCategory) (*ValidatedSubmission, error) {
	fields := make(map[string]string)

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		fields["name"] = "Image name is required"
	}
	if category == nil {
		fields["plant_type"] = "Please select a plant type"
	}

	if len(fields) > 0 {
		return nil, ErrorWithFields(fields)
	}

	return &ValidatedSubmission{Name: trimmed, PlantType: *category}, nil
}

// UploadRecord describes one submitted image. Records are immutable once
// written except for the diagnosis status, which the diagnosis worker
// advances.
type UploadRecord struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Name        string          `json:"name"`
	PlantType   PlantCategory   `json:"plantType"`
	StorageKey  string          `json:"storageKey"`
	ContentType string          `json:"contentType"`
	Status      DiagnosisStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`

	// DiagnosisKey is fixed at creation time so the image/diagnosis link
	// never has to be reconstructed by parsing the storage key.
	DiagnosisKey string `json:"diagnosisKey"`

	// URL is the dereferenceable access URL returned by storage.
	URL string `json:"url,omitempty"`
}

// NewUploadRecord assembles a record for a validated submission. The
// storage and diagnosis keys are derived from the same instant.
func NewUploadRecord(userID uuid.UUID, sub *ValidatedSubmission, at time.Time) *UploadRecord {
	key := ImageKey(userID, at)
	return &UploadRecord{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         sub.Name,
		PlantType:    sub.PlantType,
		StorageKey:   key,
		DiagnosisKey: DiagnosisKeyForImage(key),
		ContentType:  ImageContentType,
		Status:       DiagnosisPending,
		CreatedAt:    at,
	}
}

// Metadata returns the side-channel object metadata for this record.
func (r *UploadRecord) Metadata() map[string]string {
	return map[string]string{
		MetadataName:      r.Name,
		MetadataPlantType: string(r.PlantType),
	}
}

// UploadFilter defines criteria for listing uploads.
type UploadFilter struct {
	UserID    uuid.UUID
	PlantType *PlantCategory

	Offset int
	Limit  int
}

// UploadService defines operations for managing upload records.
type UploadService interface {
	// CreateUpload persists a new record.
	// Returns ECONFLICT if the storage key is already taken.
	CreateUpload(ctx context.Context, record *UploadRecord) error

	// FindUploadByID retrieves a record by its ID.
	// Returns ENOTFOUND if the record does not exist.
	FindUploadByID(ctx context.Context, id uuid.UUID) (*UploadRecord, error)

	// FindUploads retrieves records matching the filter, newest first,
	// along with the total count.
	FindUploads(ctx context.Context, filter UploadFilter) ([]*UploadRecord, int, error)

	// UpdateUploadStatus advances the diagnosis status of a record.
	// Returns ENOTFOUND if the record does not exist.
	UpdateUploadStatus(ctx context.Context, id uuid.UUID, status DiagnosisStatus) error

	// DeleteUpload removes a record. The stored image is deleted by the
	// caller; any diagnosis artifact is left in place.
	// Returns ENOTFOUND if the record does not exist.
	DeleteUpload(ctx context.Context, id uuid.UUID) error
}
