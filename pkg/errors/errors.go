package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// Inspection lifecycle errors. Lookup failures are recoverable; callers
	// decide how to present them.
	ErrTemplateNotFound        = New("TEMPLATE_NOT_FOUND", http.StatusNotFound, "inspection template not found")
	ErrWorkingTemplateNotFound = New("WORKING_TEMPLATE_NOT_FOUND", http.StatusNotFound, "working template not found")
	ErrInspectionNotFound      = New("INSPECTION_NOT_FOUND", http.StatusNotFound, "completed inspection not found")
	ErrInvalidInspectionData   = New("INVALID_INSPECTION_DATA", http.StatusBadRequest, "invalid inspection data")
	ErrFileOperationFailed     = New("FILE_OPERATION_FAILED", http.StatusInternalServerError, "file operation failed")
	ErrSaveOperationFailed     = New("SAVE_OPERATION_FAILED", http.StatusInternalServerError, "save operation failed")
	ErrAuditTrailCreation      = New("AUDIT_TRAIL_CREATION_FAILED", http.StatusInternalServerError, "audit trail creation failed")
	ErrInsufficientPermissions = New("INSUFFICIENT_PERMISSIONS", http.StatusForbidden, "insufficient permissions")
	ErrInvalidHash             = New("INVALID_HASH", http.StatusBadRequest, "invalid or missing hash")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
