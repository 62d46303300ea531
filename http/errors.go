package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adjeikofi/cropdoc"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case cropdoc.ENOTFOUND:
		return http.StatusNotFound
	case cropdoc.EINVALID, cropdoc.EGEOMETRY:
		return http.StatusBadRequest
	case cropdoc.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case cropdoc.EFORBIDDEN, cropdoc.EREJECTED:
		return http.StatusForbidden
	case cropdoc.ECONFLICT:
		return http.StatusConflict
	case cropdoc.ERATELIMIT:
		return http.StatusTooManyRequests
	case cropdoc.EUNAVAILABLE, cropdoc.EDEVICE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleError converts domain errors to appropriate HTTP responses.
// It logs internal errors and returns user-safe messages.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := cropdoc.ErrorCode(err)
	message := cropdoc.ErrorMessage(err)
	fields := cropdoc.ErrorFields(err)
	status := errorStatusCode(code)

	// Log internal errors with full details
	if code == cropdoc.EINTERNAL {
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
		// Don't expose internal error details to clients
		message = "An internal error occurred."
	}

	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Fields:  fields,
	})
}
