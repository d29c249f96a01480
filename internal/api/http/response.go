package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	ErrorType string `json:"errorType,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// WriteSuccess writes the success envelope with the given payload.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func statusForErrorType(t domain.ErrorType) int {
	switch t {
	case domain.ErrorTypeValidation, domain.ErrorTypeIneligibleState, domain.ErrorTypeDuplicatePending:
		return http.StatusBadRequest
	case domain.ErrorTypeAuthorization:
		return http.StatusForbidden
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeAlreadyReviewed:
		return http.StatusConflict
	case domain.ErrorTypeTransactionFailed:
		return http.StatusServiceUnavailable
	case domain.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps a service error onto the envelope. Internal detail stays in
// the log; the client sees the taxonomy tag and the human-readable message.
func WriteError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Err != nil {
			logger.Error("Request failed", "error_type", de.Type, "error", de.Err)
		}
		writeJSON(w, statusForErrorType(de.Type), Response{
			Success:   false,
			Message:   de.Message,
			ErrorType: string(de.Type),
		})
		return
	}

	logger.Error("Unclassified request failure", "error", err)
	writeJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
	})
}
