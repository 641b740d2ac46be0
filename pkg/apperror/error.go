package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a transport-level error with an explicit HTTP status, used by
// the delivery layer for failures that have no domain kind (bad path
// parameters, unavailable dependencies).
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func ServiceUnavailable(message string) *AppError {
	return New(http.StatusServiceUnavailable, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// ValidationError reports malformed or out-of-range caller input. Field
// names the first offending attribute and is empty for whole-object rules.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(message, field string) *ValidationError {
	return &ValidationError{Message: message, Field: field}
}

// NotFoundError reports that the referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a uniqueness violation detected before a write.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// PreconditionFailedError reports a version tag mismatch on a conditional
// write. Callers re-read and re-apply; nothing retries automatically.
type PreconditionFailedError struct {
	Message string
}

func (e *PreconditionFailedError) Error() string {
	return e.Message
}

func NewPreconditionFailed(message string) *PreconditionFailedError {
	return &PreconditionFailedError{Message: message}
}

// DatabaseError wraps an unexpected store failure. Cause is kept for logs
// and must not be rendered to clients.
type DatabaseError struct {
	Message string
	Cause   error
}

func (e *DatabaseError) Error() string {
	return e.Message
}

func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

func NewDatabase(message string, cause error) *DatabaseError {
	return &DatabaseError{Message: message, Cause: cause}
}

// Kind names an error category for response payloads.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindDatabase           Kind = "DATABASE_ERROR"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Classify maps err to its HTTP status, kind, client-safe message and, for
// validation failures, the offending field.
func Classify(err error) (status int, kind Kind, message, field string) {
	var (
		validationErr   *ValidationError
		notFoundErr     *NotFoundError
		conflictErr     *ConflictError
		preconditionErr *PreconditionFailedError
		databaseErr     *DatabaseError
		appErr          *AppError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, KindValidation, validationErr.Message, validationErr.Field
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, KindNotFound, notFoundErr.Error(), ""
	case errors.As(err, &conflictErr):
		return http.StatusConflict, KindConflict, conflictErr.Message, ""
	case errors.As(err, &preconditionErr):
		return http.StatusPreconditionFailed, KindPreconditionFailed, preconditionErr.Message, ""
	case errors.As(err, &databaseErr):
		return http.StatusInternalServerError, KindDatabase, "An error occurred while processing your request", ""
	case errors.As(err, &appErr):
		kind := KindInternal
		if appErr.Code == http.StatusBadRequest {
			kind = KindValidation
		}
		if appErr.Code == http.StatusInternalServerError {
			return appErr.Code, kind, "An unexpected error occurred. Please try again later.", ""
		}
		return appErr.Code, kind, appErr.Message, ""
	default:
		return http.StatusInternalServerError, KindInternal, "An unexpected error occurred. Please try again later.", ""
	}
}
