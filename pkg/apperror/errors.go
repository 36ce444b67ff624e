package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a shorthand for a validation error on a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsValidation reports whether err is a 422 validation error
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity
}

// IsNotFound reports whether err is a 404 error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

// IsConflict reports whether err is a 409 error
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusConflict
}

// CommitStep names a step of the sale commit sequence.
type CommitStep string

const (
	StepHeader    CommitStep = "header"
	StepItems     CommitStep = "items"
	StepInventory CommitStep = "inventory"
	StepLoyalty   CommitStep = "loyalty"
	StepDrawer    CommitStep = "drawer"
)

// TransactionError reports a commit that failed part way through.
// CompensationErrs holds undo actions that could not be applied.
type TransactionError struct {
	Step             CommitStep
	Err              error
	CompensationErrs []error
}

// NewTransactionError tags err with the commit step that produced it
func NewTransactionError(step CommitStep, err error) *TransactionError {
	return &TransactionError{Step: step, Err: err}
}

func (e *TransactionError) Error() string {
	msg := fmt.Sprintf("transaction commit failed at %s step: %v", e.Step, e.Err)
	if len(e.CompensationErrs) > 0 {
		parts := make([]string, 0, len(e.CompensationErrs))
		for _, ce := range e.CompensationErrs {
			parts = append(parts, ce.Error())
		}
		msg += " (compensation errors: " + strings.Join(parts, "; ") + ")"
	}
	return msg
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// StorageError reports a failed write to local durable storage.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a storage failure for op
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed transmission to a printer.
type TransportError struct {
	Printer string
	Attempt int
	Timeout bool
	Err     error
}

// NewTransportError wraps err as a transport failure. Timeout is derived from err.
func NewTransportError(printer string, attempt int, err error) *TransportError {
	return &TransportError{
		Printer: printer,
		Attempt: attempt,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

func (e *TransportError) Error() string {
	kind := "failed"
	if e.Timeout {
		kind = "timed out"
	}
	return fmt.Sprintf("printer %s attempt %d %s: %v", e.Printer, e.Attempt, kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var txErr *TransactionError
	if errors.As(err, &txErr) {
		fields := []FieldError{{Field: "step", Message: string(txErr.Step)}}
		for _, cerr := range txErr.CompensationErrs {
			fields = append(fields, FieldError{Field: "compensation", Message: cerr.Error()})
		}
		return &AppError{
			Code:    http.StatusInternalServerError,
			Message: txErr.Error(),
			Errors:  fields,
		}
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return &AppError{
			Code:    http.StatusInsufficientStorage,
			Message: storageErr.Error(),
		}
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return &AppError{
			Code:    http.StatusBadGateway,
			Message: transportErr.Error(),
		}
	}

	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	}
}
