package cropdoc

import (
	"context"
	"io"
	"strings"
)

// FileStorage defines operations against remote object storage. It is the
// single place where the pipeline performs network I/O.
type FileStorage interface {
	// Upload writes a payload and its side-channel metadata at the given
	// key and returns a stable access URL.
	// Returns EREJECTED if the backend declines the write (auth, quota)
	// and EUNAVAILABLE on transport failure. No retry is performed here;
	// retries are caller policy.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, metadata map[string]string) (url string, err error)

	// Download fetches an object's bytes.
	// Returns ENOTFOUND if the object does not exist.
	Download(ctx context.Context, key string) ([]byte, error)

	// Metadata fetches an object's custom metadata.
	// Returns ENOTFOUND if the object does not exist.
	Metadata(ctx context.Context, key string) (map[string]string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys under a prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a stored object.
	GetURL(key string) string
}

// StorageConfig holds configuration for file storage.
type StorageConfig struct {
	// Provider is the storage provider ("local" or "s3").
	Provider string

	// Local storage configuration
	LocalPath string
	LocalURL  string

	// S3 storage configuration
	S3Bucket  string
	S3Region  string
	S3BaseURL string
}

// DiagnosisContentType is the content type of diagnosis artifacts.
const DiagnosisContentType = "text/plain"

// MetadataValue looks up a metadata field case-insensitively. S3 returns
// custom metadata keys lowercased, so exact-key lookups are unreliable.
func MetadataValue(metadata map[string]string, key string) string {
	if v, ok := metadata[key]; ok {
		return v
	}
	lower := strings.ToLower(key)
	for k, v := range metadata {
		if strings.ToLower(k) == lower {
			return v
		}
	}
	return ""
}
