package http

import (
	"encoding/json"
	"net/http"

	apperrors "circulation/pkg/errors"
)

type ErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps err onto a status code. Invalid-state failures are
// reported as not found so callers cannot tell a missing asset from missing
// reference data.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	var statusCode int
	switch appErr.Code {
	case apperrors.CodeInvalidInput:
		statusCode = http.StatusBadRequest
	case apperrors.CodeNotFound, apperrors.CodeInvalidState:
		statusCode = http.StatusNotFound
	case apperrors.CodeValidation:
		statusCode = http.StatusUnprocessableEntity
	case apperrors.CodeConflict:
		statusCode = http.StatusConflict
	case apperrors.CodeTransactionFailure, apperrors.CodeUnavailable:
		statusCode = http.StatusServiceUnavailable
	case apperrors.CodeTimeout:
		statusCode = http.StatusGatewayTimeout
	default:
		statusCode = http.StatusInternalServerError
	}

	errResp := ErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		Retryable: appErr.Retryable,
		Details:   appErr.Details,
	}
	if appErr.Code == apperrors.CodeInvalidState {
		errResp.Code = apperrors.CodeNotFound
	}
	if statusCode == http.StatusInternalServerError {
		errResp = ErrorResponse{Error: "Internal server error", Code: apperrors.CodeInternal}
	}

	return WriteJSON(w, statusCode, errResp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
