package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeMissingParameter   = "MISSING_PARAMETER"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeStorage            = "STORAGE_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// FieldError names one input field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	Fields  []FieldError
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

// NewValidationError reports input that does not satisfy an entity's shape.
func NewValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

func NewMissingParameterError(name string) *AppError {
	return &AppError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("query parameter %q is required", name),
		Fields:  []FieldError{{Field: name, Message: "is required"}},
	}
}

func NewStorageUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageUnavailable,
		Message: "Storage is unavailable",
		Err:     err,
	}
}

func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    CodeStorage,
		Message: "Storage operation failed",
		Err:     err,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsValidationError reports whether err carries a VALIDATION_ERROR AppError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeValidation
}

// StatusFor maps an AppError code onto its HTTP status.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeMissingParameter:
		return fiber.StatusBadRequest
	case CodeStorageUnavailable:
		return fiber.StatusServiceUnavailable
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
