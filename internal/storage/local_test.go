package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjeikofi/cropdoc"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	return store
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	data := []byte("jpeg bytes")
	metadata := map[string]string{"name": "North field", "plantType": "Cassava"}

	url, err := store.Upload(ctx, "u1/images/2024-05-01T12:00:00.000Z.jpg", bytes.NewReader(data), "image/jpeg", metadata)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/u1/images/2024-05-01T12:00:00.000Z.jpg", url)

	got, err := store.Download(ctx, "u1/images/2024-05-01T12:00:00.000Z.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	meta, err := store.Metadata(ctx, "u1/images/2024-05-01T12:00:00.000Z.jpg")
	require.NoError(t, err)
	assert.Equal(t, "North field", cropdoc.MetadataValue(meta, "name"))
	assert.Equal(t, "Cassava", cropdoc.MetadataValue(meta, "plantType"))
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Download(context.Background(), "u1/images/missing.jpg")
	require.Error(t, err)
	assert.Equal(t, cropdoc.ENOTFOUND, cropdoc.ErrorCode(err))
}

func TestLocalStorage_List(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, key := range []string{
		"u1/images/a.jpg",
		"u1/diagnoses/a_diagnosis.txt",
		"u2/images/b.jpg",
	} {
		_, err := store.Upload(ctx, key, bytes.NewReader([]byte("x")), "application/octet-stream", nil)
		require.NoError(t, err)
	}

	keys, err := store.List(ctx, "u1/images/")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1/images/a.jpg"}, keys)

	// Metadata sidecars never show up as objects.
	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStorage_Delete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "u1/images/a.jpg", bytes.NewReader([]byte("x")), "image/jpeg", nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "u1/images/a.jpg"))

	exists, err := store.Exists(ctx, "u1/images/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// Idempotent.
	require.NoError(t, store.Delete(ctx, "u1/images/a.jpg"))
}

func TestMetadataValue_CaseInsensitive(t *testing.T) {
	meta := map[string]string{"planttype": "Rice", "name": "Paddy 3"}
	assert.Equal(t, "Rice", cropdoc.MetadataValue(meta, "plantType"))
	assert.Equal(t, "Paddy 3", cropdoc.MetadataValue(meta, "name"))
	assert.Equal(t, "", cropdoc.MetadataValue(meta, "missing"))
}
