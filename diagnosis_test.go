package cropdoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosisKeyForImage(t *testing.T) {
	key := DiagnosisKeyForImage("u1/images/2024-05-01T12:00:00.000Z.jpg")
	assert.Equal(t, "u1/diagnoses/2024-05-01T12:00:00.000Z_diagnosis.txt", key)
}

func TestDiagnosisKeyForImage_RoundTripsWithImageKey(t *testing.T) {
	userID := "9d1f5e34-61f2-4c6e-94fb-2f4f7f2f6f11"
	imageKey := userID + "/images/2025-01-15T08:30:45.123Z.jpg"

	key := DiagnosisKeyForImage(imageKey)
	assert.Equal(t, userID+"/diagnoses/2025-01-15T08:30:45.123Z_diagnosis.txt", key)
}

func TestTimestampFromKey(t *testing.T) {
	ts, err := TimestampFromKey("u1/images/2024-05-01T12:00:00.000Z.jpg")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), ts.UTC())
}

func TestTimestampFromKey_ParseFailureDegrades(t *testing.T) {
	_, err := TimestampFromKey("u1/images/not-a-timestamp.jpg")
	require.Error(t, err)
	// Callers omit the date on parse failure; the error carries no
	// internal cause worth surfacing.
	assert.Equal(t, EINVALID, ErrorCode(err))
}

func TestDiagnosisStatusValid(t *testing.T) {
	assert.True(t, DiagnosisPending.Valid())
	assert.True(t, DiagnosisComplete.Valid())
	assert.True(t, DiagnosisFailed.Valid())
	assert.False(t, DiagnosisStatus("done").Valid())
}
