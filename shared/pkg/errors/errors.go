package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Standard error codes
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
)

// Stock reconciliation error codes
const (
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeEmptyDelivery     = "EMPTY_DELIVERY"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyReceived   = "ALREADY_RECEIVED"
	CodePartialReceipt    = "PARTIAL_RECEIPT_FAILURE"
	CodeFinalizeFailure   = "FINALIZE_FAILURE"
	CodeConcurrentWrite   = "CONCURRENT_WRITE_CONFLICT"
	CodeReceiptInProgress = "RECEIPT_IN_PROGRESS"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails merges details into the error
func (e *AppError) WithDetails(details map[string]string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// DetailKeys returns the detail keys in sorted order
func (e *AppError) DetailKeys() []string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Validation errors

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

// ErrValidationWithFields creates a validation error with field details
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	return ErrValidation(message).WithDetails(fields)
}

// ErrInvalidQuantity creates an invalid quantity error
func ErrInvalidQuantity(message string) *AppError {
	return NewAppError(CodeInvalidQuantity, message, http.StatusBadRequest)
}

// ErrEmptyDelivery creates an empty delivery error
func ErrEmptyDelivery() *AppError {
	return NewAppError(CodeEmptyDelivery, "delivery has no line items", http.StatusBadRequest)
}

// Resource errors

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrNotFoundWithID creates a not found error with ID
func ErrNotFoundWithID(resource, id string) *AppError {
	return ErrNotFound(resource).WithDetail("id", id)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict)
}

// State errors

// ErrInvalidTransition creates an invalid status transition error
func ErrInvalidTransition(message string) *AppError {
	return NewAppError(CodeInvalidTransition, message, http.StatusConflict)
}

// ErrAlreadyReceived creates an already received error for a delivery
func ErrAlreadyReceived(deliveryID string) *AppError {
	return NewAppError(CodeAlreadyReceived, "delivery already received", http.StatusConflict).
		WithDetail("deliveryId", deliveryID)
}

// ErrReceiptInProgress creates an error for a delivery that is being received by another caller
func ErrReceiptInProgress(deliveryID string) *AppError {
	return NewAppError(CodeReceiptInProgress, "delivery receipt already in progress", http.StatusConflict).
		WithDetail("deliveryId", deliveryID)
}

// ErrPartialReceipt creates a partial receipt error
func ErrPartialReceipt(deliveryID string) *AppError {
	return NewAppError(CodePartialReceipt, "delivery was only partially applied to inventory", http.StatusConflict).
		WithDetail("deliveryId", deliveryID)
}

// ErrFinalizeFailure creates an error for a delivery whose lines were applied but could not be closed
func ErrFinalizeFailure(deliveryID string) *AppError {
	return NewAppError(CodeFinalizeFailure, "inventory updated but delivery could not be marked received", http.StatusInternalServerError).
		WithDetail("deliveryId", deliveryID)
}

// ErrConcurrentWrite creates a write conflict error that survived local retries
func ErrConcurrentWrite(resource, id string) *AppError {
	return NewAppError(CodeConcurrentWrite, fmt.Sprintf("%s was modified concurrently", resource), http.StatusConflict).
		WithDetail("id", id)
}

// Internal errors

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// ErrBadRequest creates a bad request error
func ErrBadRequest(message string) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest)
}

// Service errors

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(service string) *AppError {
	return NewAppError(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

// ErrTimeout creates a timeout error
func ErrTimeout(operation string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError converts a standard error to an AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	return ErrInternal("").Wrap(err)
}
