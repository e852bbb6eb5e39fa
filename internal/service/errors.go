package service

import (
	"errors"
	"net/http"

	"todo_backend/internal/domain"
)

// ErrorPayload is the structured error body shared by the REST and tool transports.
type ErrorPayload struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	TaskID     int64  `json:"task_id,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	Operation  string `json:"operation,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// DescribeError maps err onto the error taxonomy. Unknown errors are reported
// as internal without leaking their text.
func DescribeError(err error) ErrorPayload {
	var ve *domain.ValidationError
	var nf *domain.TaskNotFoundError
	var se *domain.StoreError

	switch {
	case errors.As(err, &ve):
		return ErrorPayload{
			Error:      "validation",
			Field:      ve.Field,
			Message:    ve.Message,
			StatusCode: http.StatusBadRequest,
		}
	case errors.As(err, &nf):
		return ErrorPayload{
			Error:      "not_found",
			TaskID:     nf.TaskID,
			TenantID:   nf.TenantID,
			Message:    nf.Error(),
			StatusCode: http.StatusNotFound,
		}
	case errors.As(err, &se):
		return ErrorPayload{
			Error:      "database",
			Operation:  se.Operation,
			Message:    "database " + se.Operation + " operation failed",
			StatusCode: http.StatusInternalServerError,
		}
	default:
		return ErrorPayload{
			Error:      "internal",
			Message:    "internal error",
			StatusCode: http.StatusInternalServerError,
		}
	}
}
