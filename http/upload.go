package http

import (
	"bytes"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/internal/diagnosis"
	"github.com/adjeikofi/cropdoc/internal/imaging"
	appmw "github.com/adjeikofi/cropdoc/internal/middleware"
)

// handleCreateUpload accepts a multipart submission with the image, its
// display name, and a plant category. When the client sends its screen
// dimensions the image is cropped to the guide box server-side before
// storage; otherwise the image is stored as sent.
func (s *Server) handleCreateUpload(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	user, err := requireUser(c)
	if err != nil {
		return err
	}

	// Both validation failures are reported together.
	var category *cropdoc.PlantCategory
	if raw := c.FormValue("plant_type"); raw != "" {
		parsed, err := cropdoc.ParsePlantCategory(raw)
		if err != nil {
			return err
		}
		category = &parsed
	}
	sub, err := cropdoc.ValidateSubmission(c.FormValue("name"), category)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return cropdoc.Invalid("image file is required")
	}
	if file.Size > cropdoc.MaxUploadSize {
		return cropdoc.Invalid("image file exceeds maximum size of 5MB")
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && ct != cropdoc.ImageContentType {
		return cropdoc.Invalid("image must be JPEG")
	}

	src, err := file.Open()
	if err != nil {
		return cropdoc.Internal("Failed to read uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return cropdoc.Internal("Failed to read uploaded file", err)
	}

	data, err = s.maybeCrop(c, data)
	if err != nil {
		return err
	}

	record := cropdoc.NewUploadRecord(user.ID, sub, time.Now().UTC())

	url, err := s.fileStorage.Upload(ctx, record.StorageKey,
		bytes.NewReader(data), cropdoc.ImageContentType, record.Metadata())
	if err != nil {
		return err
	}
	record.URL = url

	if err := s.uploadService.CreateUpload(ctx, record); err != nil {
		// Clean up the stored object on record failure
		_ = s.fileStorage.Delete(ctx, record.StorageKey)
		return err
	}

	if _, err := diagnosis.Enqueue(ctx, s.queue, record); err != nil {
		// The upload stands; the record just stays pending until a
		// retry or manual requeue.
		s.log(c).Error("failed to enqueue diagnosis job",
			slog.String("upload_id", record.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	appmw.RecordUploadBytes(int64(len(data)))

	s.log(c).Info("image uploaded",
		slog.String("upload_id", record.ID.String()),
		slog.String("storage_key", record.StorageKey),
		slog.String("plant_type", string(record.PlantType)),
	)

	return RespondCreated(c, record)
}

// maybeCrop applies the guide-box crop when the client supplied its screen
// dimensions with the submission.
func (s *Server) maybeCrop(c echo.Context, data []byte) ([]byte, error) {
	sw, errW := strconv.ParseFloat(c.FormValue("screen_width"), 64)
	sh, errH := strconv.ParseFloat(c.FormValue("screen_height"), 64)
	if errW != nil || errH != nil {
		// No crop requested
		return data, nil
	}

	w, h, err := imaging.Bounds(data)
	if err != nil {
		return nil, cropdoc.Invalid("image is not a valid JPEG")
	}

	cropped, err := imaging.CropToGuideBox(&cropdoc.CapturedImage{
		Data:         data,
		NativeWidth:  w,
		NativeHeight: h,
	}, sw, sh)
	if err != nil {
		return nil, err
	}
	return cropped.Data, nil
}

func (s *Server) handleListUploads(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	user, err := requireUser(c)
	if err != nil {
		return err
	}

	filter := cropdoc.UploadFilter{
		UserID: user.ID,
		Limit:  20,
	}

	if raw := c.QueryParam("plant_type"); raw != "" {
		category, err := cropdoc.ParsePlantCategory(raw)
		if err != nil {
			return err
		}
		filter.PlantType = &category
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return cropdoc.Invalid("limit must be between 1 and 100")
		}
		filter.Limit = limit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return cropdoc.Invalid("offset must be non-negative")
		}
		filter.Offset = offset
	}

	records, total, err := s.uploadService.FindUploads(ctx, filter)
	if err != nil {
		return err
	}

	for _, record := range records {
		record.URL = s.fileStorage.GetURL(record.StorageKey)
	}

	return RespondList(c, records, total, filter.Offset, filter.Limit)
}

func (s *Server) handleListPlantCategories(c echo.Context) error {
	return RespondOK(c, cropdoc.PlantCategories)
}

// findOwnedUpload fetches an upload and hides other users' records behind
// ENOTFOUND.
func (s *Server) findOwnedUpload(c echo.Context) (*cropdoc.UploadRecord, error) {
	user, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	record, err := s.uploadService.FindUploadByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if record.UserID != user.ID {
		return nil, cropdoc.NotFound("Upload not found")
	}
	return record, nil
}

func (s *Server) handleGetUpload(c echo.Context) error {
	record, err := s.findOwnedUpload(c)
	if err != nil {
		return err
	}

	record.URL = s.fileStorage.GetURL(record.StorageKey)
	return RespondOK(c, record)
}

func (s *Server) handleDeleteUpload(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	record, err := s.findOwnedUpload(c)
	if err != nil {
		return err
	}

	if err := s.fileStorage.Delete(ctx, record.StorageKey); err != nil {
		return err
	}

	if err := s.uploadService.DeleteUpload(ctx, record.ID); err != nil {
		return err
	}

	s.log(c).Info("upload deleted",
		slog.String("upload_id", record.ID.String()),
		slog.String("storage_key", record.StorageKey),
	)

	return RespondNoContent(c)
}

// DiagnosisResponse is the payload for the diagnosis endpoint. Absence of
// a diagnosis is an expected state, not an error.
type DiagnosisResponse struct {
	Available bool                    `json:"available"`
	Status    cropdoc.DiagnosisStatus `json:"status"`
	Message   string                  `json:"message,omitempty"`
	Diagnosis *cropdoc.Diagnosis      `json:"diagnosis,omitempty"`
}

// diagnosisFallback is shown while the background job has not produced an
// artifact yet, and permanently for failed diagnoses.
const diagnosisFallback = "No diagnosis available for this image."

func (s *Server) handleGetDiagnosis(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	record, err := s.findOwnedUpload(c)
	if err != nil {
		return err
	}

	result, err := s.diagnosisService.FetchDiagnosis(ctx, record)
	if err != nil {
		if cropdoc.IsErrorCode(err, cropdoc.ENOTFOUND) {
			return RespondOK(c, DiagnosisResponse{
				Available: false,
				Status:    record.Status,
				Message:   diagnosisFallback,
			})
		}
		// Transport failures surface as errors so the client can retry.
		return err
	}

	return RespondOK(c, DiagnosisResponse{
		Available: true,
		Status:    record.Status,
		Diagnosis: result,
	})
}
