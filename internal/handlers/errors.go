package handlers

import (
	"errors"
	"net/http"

	"taskplanner/internal/logger"
	"taskplanner/internal/service"

	"go.uber.org/zap"
)

// handleServiceError maps business errors to HTTP responses; anything else
// is an internal failure.
func handleServiceError(w http.ResponseWriter, err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		body := map[string]any{
			"error":   businessErr.Code,
			"message": businessErr.Message,
		}
		if len(businessErr.Fields) > 0 {
			body["fields"] = businessErr.Fields
		}
		responseWithJSON(w, statusCode, body)
		return
	}

	logger.Error("HTTP: service error", err)
	responseWithError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidationError:
		return http.StatusBadRequest
	case service.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusBadRequest
	}
}
