package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/showroomhq/commission-service/internal/domain"
	"go.uber.org/zap"
)

// respondJSON writes a JSON response body with the given status
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorResponse is the wire shape for all API errors
type errorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// respondError maps a domain error to an HTTP status and writes it
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	status := statusForCode(domainErr.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.Error(err))
	}

	respondJSON(w, status, errorResponse{
		Error:   domainErr.Message,
		Code:    string(domainErr.Code),
		Details: domainErr.Details,
	})
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrorCodeVendorNotFound,
		domain.ErrorCodeReportNotFound,
		domain.ErrorCodeRowNotFound:
		return http.StatusNotFound
	case domain.ErrorCodeVendorNotLinked,
		domain.ErrorCodeValidationFailed,
		domain.ErrorCodeValidationMissingField,
		domain.ErrorCodeAccountingAuthRequired:
		return http.StatusBadRequest
	case domain.ErrorCodeAccountingAPIFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
