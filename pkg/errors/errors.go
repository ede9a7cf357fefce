package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

const (
	// ErrCodeInvalidInput marks user-correctable input problems.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeConflict marks business-rule rejections (duplicate name,
	// duplicate membership). Distinct from input validation.
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeRateLimit    ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUnavailable marks transient infrastructure failures (store
	// busy past the retry budget). Never the user's fault.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// AppError carries an error code, a user-presentable message and the cause.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func NewInvalidInputError(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func NewConflictError(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

func NewNotFoundError(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func NewUnauthorizedError(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

func NewRateLimitError() *AppError {
	return New(ErrCodeRateLimit, "rate limit exceeded", http.StatusTooManyRequests)
}

func NewUnavailableError(message string) *AppError {
	return New(ErrCodeUnavailable, message, http.StatusServiceUnavailable)
}

func NewInternalError(message string) *AppError {
	return New(ErrCodeInternal, message, http.StatusInternalServerError)
}

// GetAppError extracts an AppError from the error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the error code of err, or ErrCodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeInternal
}
