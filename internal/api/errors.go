package api

import (
	"errors"
	"net/http"

	"github.com/rgould/fieldkit/internal/schema"
	"github.com/rgould/fieldkit/internal/store"
)

// Error categories used across the API surface.
const (
	CategoryValidationError = "VALIDATION_ERROR"
	CategoryObjectNotFound  = "OBJECT_NOT_FOUND"
	CategoryConflict        = "CONFLICT"
	CategoryInternalError   = "INTERNAL_ERROR"
)

// Error is the JSON error envelope every failing request returns.
type Error struct {
	Status        string        `json:"status"`
	Message       string        `json:"message"`
	CorrelationID string        `json:"correlationId"`
	Category      string        `json:"category"`
	Errors        []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is a single field-level error within an Error.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	In      string `json:"in,omitempty"`
}

// NewNotFoundError creates a 404 error with the OBJECT_NOT_FOUND category.
func NewNotFoundError(message, correlationID string) *Error {
	return &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryObjectNotFound,
	}
}

// NewValidationError creates a 400 error with the VALIDATION_ERROR category.
func NewValidationError(message, correlationID string, details []ErrorDetail) *Error {
	return &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryValidationError,
		Errors:        details,
	}
}

// NewConflictError creates a 409 error with the CONFLICT category.
func NewConflictError(message, correlationID string) *Error {
	return &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryConflict,
	}
}

// WriteError writes an Error as a JSON response with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, apiErr *Error) {
	WriteJSON(w, statusCode, apiErr)
}

// WriteStoreError translates a store error into the matching HTTP response.
// Validation failures from the schema compiler expand into per-field details.
func WriteStoreError(w http.ResponseWriter, r *http.Request, err error) {
	corrID := CorrelationID(r.Context())

	var verrs schema.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		details := make([]ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, ErrorDetail{
				Message: fe.Message,
				Code:    fe.Code,
				In:      fe.Field,
			})
		}
		WriteError(w, http.StatusBadRequest,
			NewValidationError("Property values were not valid", corrID, details))
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrSourceNotFound):
		WriteError(w, http.StatusNotFound, NewNotFoundError(err.Error(), corrID))
	case errors.Is(err, store.ErrDuplicateAPIName), errors.Is(err, store.ErrTypeInUse):
		WriteError(w, http.StatusConflict, NewConflictError(err.Error(), corrID))
	case errors.Is(err, store.ErrInvalidAPIName),
		errors.Is(err, store.ErrUnknownField),
		errors.Is(err, store.ErrInvalidPermission):
		WriteError(w, http.StatusBadRequest, NewValidationError(err.Error(), corrID, nil))
	default:
		WriteError(w, http.StatusInternalServerError, &Error{
			Status:        "error",
			Message:       "Internal Server Error",
			CorrelationID: corrID,
			Category:      CategoryInternalError,
		})
	}
}
