package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("operation not allowed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("resource conflict")
)

// Write path errors. ErrStoreUnavailable and ErrUploadRejected both match ErrUploadFailed.
var (
	ErrUploadFailed     = errors.New("upload failed")
	ErrStoreUnavailable = fmt.Errorf("%w: object store unavailable", ErrUploadFailed)
	ErrUploadRejected   = fmt.Errorf("%w: object store rejected the upload", ErrUploadFailed)
	ErrPersistence      = errors.New("persistence error")
	ErrCreateFailed     = errors.New("failed to create project")
	ErrUpdateFailed     = errors.New("failed to update project")
	// ErrReloadFailed means the write was committed but reading it back failed.
	// The stored rows and blobs are valid and must not be compensated.
	ErrReloadFailed = errors.New("project saved but could not be reloaded")
)

// Constraint names the rule a rejected file broke.
type Constraint string

const (
	ConstraintRequired  Constraint = "required"
	ConstraintExtension Constraint = "extension"
	ConstraintType      Constraint = "type"
	ConstraintSize      Constraint = "size"
	ConstraintContent   Constraint = "content"
	ConstraintCount     Constraint = "count"
)

type ValidationError struct {
	Field      string
	Constraint Constraint
	Message    string
}

func NewValidationError(field string, constraint Constraint, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:      field,
		Constraint: constraint,
		Message:    fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// CleanupFailure is a best-effort blob deletion that did not succeed.
type CleanupFailure struct {
	Handle string `json:"handle"`
	Reason string `json:"reason"`
}

func NewCleanupFailure(handle string, err error) CleanupFailure {
	return CleanupFailure{Handle: handle, Reason: err.Error()}
}

// WriteError is the single aggregate failure surfaced for a project write.
// It matches both the operation sentinel and the underlying cause.
type WriteError struct {
	Op      error
	Cause   error
	Cleanup []CleanupFailure
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Cause)
	if len(e.Cleanup) > 0 {
		handles := make([]string, 0, len(e.Cleanup))
		for _, c := range e.Cleanup {
			handles = append(handles, c.Handle)
		}
		msg += fmt.Sprintf(" (rollback left %d blob(s): %s)", len(e.Cleanup), strings.Join(handles, ", "))
	}
	return msg
}

func (e *WriteError) Unwrap() []error {
	return []error{e.Op, e.Cause}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
