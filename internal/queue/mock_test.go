package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockQueue_EnqueueDequeue(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()
	userID := uuid.New()

	job, err := q.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, userID,
		map[string]interface{}{"upload_id": "abc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxAttempts)

	got, err := q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{QueueDiagnosis}})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, JobStatusProcessing, got.Status)
	assert.Equal(t, 1, got.AttemptCount)
	assert.Equal(t, "worker-1", got.WorkerID)

	// Nothing left to dequeue
	empty, err := q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestMockQueue_DequeueSkipsOtherQueues(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	_, err := q.Enqueue(ctx, "other", JobTypeDiagnosis, uuid.New(), map[string]interface{}{}, nil)
	require.NoError(t, err)

	got, err := q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{QueueDiagnosis}})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMockQueue_DequeueHonorsScheduledAt(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	_, err := q.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, uuid.New(),
		map[string]interface{}{}, &EnqueueOptions{Delay: time.Hour})
	require.NoError(t, err)

	got, err := q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMockQueue_FailRetriesUntilExhausted(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	job, err := q.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, uuid.New(),
		map[string]interface{}{}, &EnqueueOptions{MaxAttempts: 2})
	require.NoError(t, err)

	// First attempt fails, job is rescheduled
	_, err = q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	require.NoError(t, q.Fail(ctx, job.ID, "transient"))

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, got.Status)
	assert.Equal(t, "transient", got.ErrorMessage)
	assert.True(t, got.ScheduledAt.After(time.Now()))

	// Exhaust the second attempt
	got.ScheduledAt = time.Now()
	_, err = q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	require.NoError(t, q.Fail(ctx, job.ID, "still broken"))

	got, err = q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestMockQueue_ListJobsFilters(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()
	userID := uuid.New()

	_, err := q.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, userID, map[string]interface{}{}, nil)
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, uuid.New(), map[string]interface{}{}, nil)
	require.NoError(t, err)

	jobs, err := q.ListJobs(ctx, JobFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	status := JobStatusPending
	jobs, err = q.ListJobs(ctx, JobFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestMockQueue_Cleanup(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	job, err := q.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, uuid.New(), map[string]interface{}{}, nil)
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	require.NoError(t, q.Complete(ctx, job.ID, nil))

	// Too young to be removed
	deleted, err := q.Cleanup(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	deleted, err = q.Cleanup(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = q.GetJob(ctx, job.ID)
	assert.Error(t, err)
}
