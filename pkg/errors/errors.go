package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrIntegrity
	ErrReferenced
	ErrStorage
)

// FieldError describes a single field-level validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AppError represents an application error
type AppError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to an HTTP status, for the error middleware.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrIntegrity, ErrReferenced:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func Validation(fields []FieldError) *AppError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.String())
	}
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; ")),
		Fields:  fields,
	}
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s %d not found", resource, id),
	}
}

func Integrity(message string, err error) *AppError {
	return &AppError{
		Code:    ErrIntegrity,
		Message: message,
		Err:     err,
	}
}

func Referenced(message string) *AppError {
	return &AppError{
		Code:    ErrReferenced,
		Message: message,
	}
}

func Storage(operation string, err error) *AppError {
	return &AppError{
		Code:    ErrStorage,
		Message: fmt.Sprintf("storage failure during %s", operation),
		Err:     err,
	}
}

// Code extracts the ErrorCode from err, or ErrStorage if err is not an AppError.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrStorage
}

func IsNotFound(err error) bool   { return Code(err) == ErrNotFound }
func IsValidation(err error) bool { return Code(err) == ErrValidation }
func IsIntegrity(err error) bool  { return Code(err) == ErrIntegrity }
func IsReferenced(err error) bool { return Code(err) == ErrReferenced }
