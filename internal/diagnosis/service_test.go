package diagnosis

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord(t *testing.T) *cropdoc.UploadRecord {
	t.Helper()
	userID := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return cropdoc.NewUploadRecord(userID, &cropdoc.ValidatedSubmission{
		Name:      "North field",
		PlantType: cropdoc.PlantCassava,
	}, at)
}

func TestService_FetchDiagnosis(t *testing.T) {
	record := testRecord(t)

	storage := &mock.FileStorage{
		DownloadFn: func(ctx context.Context, key string) ([]byte, error) {
			assert.Equal(t, record.DiagnosisKey, key)
			return []byte("Leaf blight detected."), nil
		},
	}

	svc := NewService(storage, testLogger())

	diagnosis, err := svc.FetchDiagnosis(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, record.ID, diagnosis.UploadID)
	assert.Equal(t, "North field", diagnosis.Name)
	assert.Equal(t, "Leaf blight detected.", diagnosis.Text)
	require.NotNil(t, diagnosis.CapturedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), diagnosis.CapturedAt.UTC())
}

func TestService_FetchDiagnosis_NotDiagnosedYet(t *testing.T) {
	record := testRecord(t)

	storage := &mock.FileStorage{
		DownloadFn: func(ctx context.Context, key string) ([]byte, error) {
			return nil, cropdoc.NotFound("object %q not found", key)
		},
	}

	svc := NewService(storage, testLogger())

	_, err := svc.FetchDiagnosis(context.Background(), record)
	require.Error(t, err)
	assert.Equal(t, cropdoc.ENOTFOUND, cropdoc.ErrorCode(err))
}

func TestService_FetchDiagnosis_BadKeyDegradesGracefully(t *testing.T) {
	record := testRecord(t)
	record.StorageKey = "not-a-real-key"

	storage := &mock.FileStorage{
		DownloadFn: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("some text"), nil
		},
	}

	svc := NewService(storage, testLogger())

	diagnosis, err := svc.FetchDiagnosis(context.Background(), record)
	require.NoError(t, err)
	assert.Nil(t, diagnosis.CapturedAt)
	assert.Equal(t, "some text", diagnosis.Text)
}
