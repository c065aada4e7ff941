// Package errors provides the error taxonomy of the buildledger API.
// Services return *AppError so handlers can respond consistently without
// leaking storage details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches another *AppError by code, so errors.Is(err, ErrInvalidInput)
// holds for any error derived from that sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrPersistence    = &AppError{Code: "PERSISTENCE_ERROR", Message: "The change could not be saved", StatusCode: http.StatusInternalServerError}
)

// Commitment errors.
var (
	ErrCommitmentNotFound = &AppError{Code: "COMMITMENT_NOT_FOUND", Message: "Commitment not found", StatusCode: http.StatusNotFound}
	ErrInvalidTerms       = &AppError{Code: "INVALID_TERMS", Message: "Commitment terms cannot be amortized", StatusCode: http.StatusUnprocessableEntity}
)

// Payment errors.
var (
	ErrPaymentNotFound     = &AppError{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount       = &AppError{Code: "INVALID_INPUT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrInvalidPaymentOwner = &AppError{Code: "INVALID_INPUT", Message: "Unknown payment owner", StatusCode: http.StatusBadRequest}
)

// Phase errors.
var (
	ErrPhaseNotFound = &AppError{Code: "PHASE_NOT_FOUND", Message: "Phase not found", StatusCode: http.StatusNotFound}
)

// Contract errors.
var (
	ErrContractNotFound     = &AppError{Code: "CONTRACT_NOT_FOUND", Message: "Contract not found", StatusCode: http.StatusNotFound}
	ErrPhaseProjectMismatch = &AppError{Code: "PHASE_PROJECT_MISMATCH", Message: "Phase belongs to a different project", StatusCode: http.StatusBadRequest}
)
