package diagnosis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adjeikofi/cropdoc"
	appmw "github.com/adjeikofi/cropdoc/internal/middleware"
	"github.com/adjeikofi/cropdoc/internal/queue"
)

// JobHandler processes crop diagnosis jobs. For each job it downloads the
// stored image, asks the model for a diagnosis, writes the artifact at the
// record's diagnosis key, and advances the record's status.
type JobHandler struct {
	uploads cropdoc.UploadService
	storage cropdoc.FileStorage
	ai      cropdoc.AIService
	logger  *slog.Logger
}

// NewJobHandler creates a diagnosis job handler.
func NewJobHandler(uploads cropdoc.UploadService, storage cropdoc.FileStorage, ai cropdoc.AIService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		uploads: uploads,
		storage: storage,
		ai:      ai,
		logger:  logger,
	}
}

// Register wires the handler into a worker pool.
func (h *JobHandler) Register(pool *queue.WorkerPool) {
	pool.RegisterHandler(queue.JobTypeDiagnosis, h.Handle)
}

// Enqueue schedules a diagnosis job for an upload record.
func Enqueue(ctx context.Context, q queue.Queue, record *cropdoc.UploadRecord) (*queue.Job, error) {
	payload := map[string]interface{}{
		"upload_id": record.ID.String(),
	}
	return q.Enqueue(ctx, queue.QueueDiagnosis, queue.JobTypeDiagnosis, record.UserID, payload, nil)
}

// Handle runs one diagnosis job. An error return lets the queue retry with
// backoff; on the final attempt the record is marked failed so clients stop
// waiting for a result that will never arrive.
func (h *JobHandler) Handle(ctx context.Context, job *queue.Job) (map[string]interface{}, error) {
	start := time.Now()
	status := "failed"
	defer func() { appmw.RecordDiagnosisJob(status, time.Since(start)) }()

	uploadID, err := parseUploadID(job)
	if err != nil {
		// Malformed payloads never succeed, no point retrying.
		h.logger.Error("invalid diagnosis job payload",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, h.fail(ctx, job, uuid.Nil, err)
	}

	record, err := h.uploads.FindUploadByID(ctx, uploadID)
	if err != nil {
		if cropdoc.ErrorCode(err) == cropdoc.ENOTFOUND {
			// Record was deleted while the job was queued.
			h.logger.Info("upload deleted before diagnosis",
				slog.String("upload_id", uploadID.String()),
			)
			status = "skipped"
			return map[string]interface{}{"skipped": "upload deleted"}, nil
		}
		return nil, h.fail(ctx, job, uploadID, err)
	}

	if record.Status == cropdoc.DiagnosisComplete {
		status = "skipped"
		return map[string]interface{}{"skipped": "already diagnosed"}, nil
	}

	imageData, err := h.storage.Download(ctx, record.StorageKey)
	if err != nil {
		return nil, h.fail(ctx, job, uploadID, fmt.Errorf("download image: %w", err))
	}

	result, err := h.ai.DiagnoseCrop(ctx, cropdoc.DiagnosisRequest{
		ImageData: imageData,
		PlantType: record.PlantType,
		ImageName: record.Name,
	})
	if err != nil {
		return nil, h.fail(ctx, job, uploadID, fmt.Errorf("diagnose crop: %w", err))
	}

	_, err = h.storage.Upload(ctx, record.DiagnosisKey,
		bytes.NewReader([]byte(result.Text)),
		cropdoc.DiagnosisContentType,
		record.Metadata(),
	)
	if err != nil {
		return nil, h.fail(ctx, job, uploadID, fmt.Errorf("store diagnosis: %w", err))
	}

	if err := h.uploads.UpdateUploadStatus(ctx, record.ID, cropdoc.DiagnosisComplete); err != nil {
		return nil, h.fail(ctx, job, uploadID, fmt.Errorf("update status: %w", err))
	}

	h.logger.Info("diagnosis complete",
		slog.String("upload_id", record.ID.String()),
		slog.String("diagnosis_key", record.DiagnosisKey),
		slog.Int("tokens_used", result.TokensUsed),
	)

	status = "completed"
	return map[string]interface{}{
		"diagnosis_key": record.DiagnosisKey,
		"tokens_used":   result.TokensUsed,
	}, nil
}

// fail marks the upload failed when the job has no retries left, then
// returns err so the queue records the failure.
func (h *JobHandler) fail(ctx context.Context, job *queue.Job, uploadID uuid.UUID, err error) error {
	if job.LastAttempt() && uploadID != uuid.Nil {
		if updateErr := h.uploads.UpdateUploadStatus(ctx, uploadID, cropdoc.DiagnosisFailed); updateErr != nil {
			h.logger.Error("failed to mark upload as failed",
				slog.String("upload_id", uploadID.String()),
				slog.String("error", updateErr.Error()),
			)
		}
	}
	return err
}

func parseUploadID(job *queue.Job) (uuid.UUID, error) {
	raw, ok := job.Payload["upload_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("payload missing upload_id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid upload_id %q: %w", raw, err)
	}
	return id, nil
}
