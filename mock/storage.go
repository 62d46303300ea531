package mock

import (
	"context"
	"io"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.FileStorage = (*FileStorage)(nil)

// FileStorage is a mock implementation of cropdoc.FileStorage.
type FileStorage struct {
	UploadFn   func(ctx context.Context, key string, reader io.Reader, contentType string, metadata map[string]string) (string, error)
	DownloadFn func(ctx context.Context, key string) ([]byte, error)
	MetadataFn func(ctx context.Context, key string) (map[string]string, error)
	DeleteFn   func(ctx context.Context, key string) error
	ListFn     func(ctx context.Context, prefix string) ([]string, error)
	ExistsFn   func(ctx context.Context, key string) (bool, error)
	GetURLFn   func(key string) string
}

func (s *FileStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string, metadata map[string]string) (string, error) {
	if s.UploadFn != nil {
		return s.UploadFn(ctx, key, reader, contentType, metadata)
	}
	return "https://mock-storage.example.com/" + key, nil
}

func (s *FileStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, key)
	}
	return nil, cropdoc.NotFound("object %q not found", key)
}

func (s *FileStorage) Metadata(ctx context.Context, key string) (map[string]string, error) {
	if s.MetadataFn != nil {
		return s.MetadataFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, key)
	}
	return nil
}

func (s *FileStorage) List(ctx context.Context, prefix string) ([]string, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, prefix)
	}
	return nil, nil
}

func (s *FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, key)
	}
	return false, nil
}

func (s *FileStorage) GetURL(key string) string {
	if s.GetURLFn != nil {
		return s.GetURLFn(key)
	}
	return "https://mock-storage.example.com/" + key
}
