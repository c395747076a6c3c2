package utils

import (
	"errors"
	"net/http"
)

// AppError is the typed error every workflow operation returns. The HTTP
// boundary maps it onto the response envelope.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeExpired           = "EXPIRED"
	CodeInvalidState      = "INVALID_STATE"
	CodeInvalidRoute      = "INVALID_ROUTE"
	CodeAlreadyDone       = "ALREADY_DONE"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInternal          = "INTERNAL_ERROR"
)

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

func NewNotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Status: http.StatusNotFound, Message: resource + " not found"}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

func NewExpired(message string) *AppError {
	return &AppError{Code: CodeExpired, Status: http.StatusBadRequest, Message: message}
}

func NewInvalidState(message string) *AppError {
	return &AppError{Code: CodeInvalidState, Status: http.StatusBadRequest, Message: message}
}

func NewInvalidRoute(message string) *AppError {
	return &AppError{Code: CodeInvalidRoute, Status: http.StatusBadRequest, Message: message}
}

func NewAlreadyDone(message string) *AppError {
	return &AppError{Code: CodeAlreadyDone, Status: http.StatusBadRequest, Message: message}
}

func NewInsufficientFunds(message string) *AppError {
	return &AppError{Code: CodeInsufficientFunds, Status: http.StatusBadRequest, Message: message}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// AsAppError extracts an AppError from err, wrapping anything else as an
// internal error so raw messages never leak to clients.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}
