package queue

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWorkerPool_RegisterHandler(t *testing.T) {
	pool := NewWorkerPool(NewMockQueue(), testLogger(), DefaultConfig())

	handler := func(ctx context.Context, job *Job) (map[string]interface{}, error) {
		return map[string]interface{}{"status": "ok"}, nil
	}

	pool.RegisterHandler(JobTypeDiagnosis, handler)

	registeredHandler, exists := pool.GetHandler(JobTypeDiagnosis)
	assert.True(t, exists)
	assert.NotNil(t, registeredHandler)
}

func TestWorkerPool_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkerCount = 2

	pool := NewWorkerPool(NewMockQueue(), testLogger(), cfg)

	ctx := context.Background()

	err := pool.Start(ctx, []string{QueueDiagnosis})
	require.NoError(t, err)

	// Starting again should error
	err = pool.Start(ctx, []string{QueueDiagnosis})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already started")

	err = pool.Stop()
	require.NoError(t, err)

	// Stopping again should error
	err = pool.Stop()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestWorkerPool_ProcessJob_Success(t *testing.T) {
	mockQueue := NewMockQueue()
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 50 * time.Millisecond

	pool := NewWorkerPool(mockQueue, testLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var handlerMu sync.Mutex
	var processedJob *Job

	handler := func(ctx context.Context, job *Job) (map[string]interface{}, error) {
		handlerMu.Lock()
		defer handlerMu.Unlock()
		processedJob = job
		return map[string]interface{}{"result": "success"}, nil
	}
	pool.RegisterHandler(JobTypeDiagnosis, handler)

	userID := uuid.New()
	job, err := mockQueue.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, userID,
		map[string]interface{}{"upload_id": uuid.New().String()}, nil)
	require.NoError(t, err)

	require.NoError(t, pool.Start(ctx, []string{QueueDiagnosis}))
	defer pool.Stop()

	// Wait for the worker to pick up and complete the job
	require.Eventually(t, func() bool {
		got, err := mockQueue.GetJob(ctx, job.ID)
		return err == nil && got.Status == JobStatusCompleted
	}, 2*time.Second, 25*time.Millisecond)

	handlerMu.Lock()
	defer handlerMu.Unlock()
	require.NotNil(t, processedJob)
	assert.Equal(t, job.ID, processedJob.ID)
	assert.Equal(t, userID, processedJob.UserID)

	completed, err := mockQueue.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"result": "success"}, completed.Result)
}

func TestWorkerPool_ProcessJob_RetryThenFail(t *testing.T) {
	mockQueue := NewMockQueue()
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 50 * time.Millisecond

	pool := NewWorkerPool(mockQueue, testLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	handler := func(ctx context.Context, job *Job) (map[string]interface{}, error) {
		return nil, errors.New("model unavailable")
	}
	pool.RegisterHandler(JobTypeDiagnosis, handler)

	job, err := mockQueue.Enqueue(ctx, QueueDiagnosis, JobTypeDiagnosis, uuid.New(),
		map[string]interface{}{}, &EnqueueOptions{MaxAttempts: 1})
	require.NoError(t, err)

	require.NoError(t, pool.Start(ctx, []string{QueueDiagnosis}))
	defer pool.Stop()

	// Single attempt allowed, so the first failure is permanent
	require.Eventually(t, func() bool {
		got, err := mockQueue.GetJob(ctx, job.ID)
		return err == nil && got.Status == JobStatusFailed
	}, 2*time.Second, 25*time.Millisecond)

	failed, err := mockQueue.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "model unavailable", failed.ErrorMessage)
	assert.True(t, failed.LastAttempt())
}

func TestWorkerPool_NoHandler(t *testing.T) {
	mockQueue := NewMockQueue()
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 50 * time.Millisecond

	pool := NewWorkerPool(mockQueue, testLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	job, err := mockQueue.Enqueue(ctx, QueueDiagnosis, "unknown_type", uuid.New(),
		map[string]interface{}{}, &EnqueueOptions{MaxAttempts: 1})
	require.NoError(t, err)

	require.NoError(t, pool.Start(ctx, []string{QueueDiagnosis}))
	defer pool.Stop()

	require.Eventually(t, func() bool {
		got, err := mockQueue.GetJob(ctx, job.ID)
		return err == nil && got.Status == JobStatusFailed
	}, 2*time.Second, 25*time.Millisecond)
}
