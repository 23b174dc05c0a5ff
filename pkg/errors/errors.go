// Package errors provides structured error types for vitae.
//
// Every failure that crosses a boundary (CLI exit, HTTP response) carries a
// machine-readable [Code]. Renderers and the pipeline wrap lower-level
// failures with [Wrap] so the code survives through fmt.Errorf("%w") chains,
// and the HTTP layer maps codes to status codes with [HTTPStatus].
//
// # Error Codes
//
//   - INVALID_*: input contract violations, rejected before rendering
//   - UNKNOWN_TEMPLATE / TEMPLATE_FORBIDDEN: skin lookup and tier gating
//   - RENDER_FAILED: packaging or encoding of an output document failed
//   - RATE_LIMITED / UNAUTHORIZED: request policy at the HTTP boundary
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownTemplate, "unknown template: %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownTemplate) {
//	    // reject with 400
//	}
//
//	err := errors.Wrap(errors.ErrCodeRenderFailed, zipErr, "package docx")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidResume Code = "INVALID_RESUME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Template errors
	ErrCodeUnknownTemplate   Code = "UNKNOWN_TEMPLATE"
	ErrCodeTemplateForbidden Code = "TEMPLATE_FORBIDDEN"

	// Request policy errors
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeNotFound     Code = "NOT_FOUND"

	// Internal errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus returns the response status for an error.
// Errors without a code map to 500.
func HTTPStatus(err error) int {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidResume, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeUnknownTemplate:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeTemplateForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
