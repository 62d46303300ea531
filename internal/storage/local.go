package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.FileStorage = (*LocalStorage)(nil)

// metaSuffix marks sidecar files holding object metadata for local storage.
const metaSuffix = ".meta.json"

// LocalStorage implements cropdoc.FileStorage on the local filesystem.
// Object metadata is kept in a JSON sidecar file next to each object.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new local storage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// path maps an object key to a filesystem path under basePath.
func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

// Upload writes the object and its metadata sidecar, creating parent
// directories as needed. Returns the object's public URL.
func (s *LocalStorage) Upload(ctx context.Context, key string, r io.Reader, contentType string, metadata map[string]string) (string, error) {
	destPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	meta := struct {
		ContentType string            `json:"content_type"`
		Metadata    map[string]string `json:"metadata,omitempty"`
	}{ContentType: contentType, Metadata: metadata}

	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(destPath+metaSuffix, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save metadata: %w", err)
	}

	return s.GetURL(key), nil
}

// Download reads the object's bytes.
func (s *LocalStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cropdoc.NotFound("object %q not found", key)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// Metadata returns the custom metadata stored alongside the object.
func (s *LocalStorage) Metadata(ctx context.Context, key string) (map[string]string, error) {
	data, err := os.ReadFile(s.path(key) + metaSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			// Object may predate metadata sidecars.
			if _, statErr := os.Stat(s.path(key)); statErr == nil {
				return map[string]string{}, nil
			}
			return nil, cropdoc.NotFound("object %q not found", key)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta struct {
		ContentType string            `json:"content_type"`
		Metadata    map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.Metadata == nil {
		meta.Metadata = map[string]string{}
	}
	return meta.Metadata, nil
}

// Delete removes the object and its metadata sidecar. Deleting a missing
// object is not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := os.Remove(s.path(key) + metaSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}

// List returns the keys of all objects whose key begins with prefix.
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return keys, nil
}

// Exists reports whether the object is present.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := os.Stat(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// GetURL returns the URL to access the object.
func (s *LocalStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}
