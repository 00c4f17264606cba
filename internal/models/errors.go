package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidName    = "INVALID_NAME"
	CodeAuth           = "AUTH_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeExternalSource = "EXTERNAL_SOURCE_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized error view.
type ErrorResponse struct {
	View  string `json:"view"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Field names the form field the error belongs to, if any.
	Field string
	Err   error
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

// NewNotFoundError reports a missing persisted resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewValidationError reports bad user input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldError reports bad user input scoped to one form field.
func NewFieldError(field, message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewInvalidNameError reports a category name the catalog source cannot resolve.
func NewInvalidNameError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidName,
		Message: message,
		Field:   "category",
	}
}

// NewAuthError reports bad credentials.
func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    CodeAuth,
		Message: message,
	}
}

// NewAuthorizationError reports a missing session or insufficient role.
func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Code:    CodeAuthorization,
		Message: message,
	}
}

// NewExternalSourceError wraps a failure talking to a third-party API.
func NewExternalSourceError(source string, err error) *AppError {
	return &AppError{
		Code:    CodeExternalSource,
		Message: fmt.Sprintf("%s request failed", source),
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// RespondWithError creates a standardized error view. Internal details are
// only exposed for non-internal errors.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{View: "error"}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Error = appErr.Message
		response.Code = appErr.Code
		response.Field = appErr.Field
	} else {
		response.Error = "Internal server error"
		response.Code = CodeInternal
	}

	return c.Status(status).JSON(response)
}
