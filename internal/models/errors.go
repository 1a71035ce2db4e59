package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewAuthRequiredError is raised locally, before any network call, when an
// operation needs an authenticated user and none is present.
func NewAuthRequiredError(message string) *AppError {
	return &AppError{
		Code:    "AUTH_REQUIRED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// UpstreamError is a transport or server failure from the upstream social
// API. The engine performs no retry; prior local state is left untouched.
type UpstreamError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned %d", e.Endpoint, e.Status)
}

// NewUpstreamError wraps an upstream failure in the shared taxonomy.
func NewUpstreamError(err *UpstreamError) *AppError {
	return &AppError{
		Code:    "UPSTREAM_ERROR",
		Message: "Upstream request failed",
		Err:     err,
	}
}

// StatusForError maps an error from the taxonomy to an HTTP status code.
func StatusForError(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "AUTH_REQUIRED":
			return fiber.StatusUnauthorized
		case "UNAUTHORIZED":
			return fiber.StatusForbidden
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "UPSTREAM_ERROR":
			var upErr *UpstreamError
			if errors.As(appErr.Err, &upErr) && upErr.Status == fiber.StatusNotFound {
				return fiber.StatusNotFound
			}
			return fiber.StatusBadGateway
		}
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		if upErr.Status == fiber.StatusNotFound {
			return fiber.StatusNotFound
		}
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
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
