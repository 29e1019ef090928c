package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageUnexpectedError is the error text of every 500 response
const MessageUnexpectedError = "An unexpected error occurred"

// MessageResponse is the acknowledgment body used by every successful call
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSONResponse sends body with statusCode
func JSONResponse(c echo.Context, statusCode int, body interface{}) error {
	return c.JSON(statusCode, body)
}

// MessageResponseHandler sends {"message": message}
func MessageResponseHandler(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// ErrorResponseHandler sends an error response
func ErrorResponseHandler(c echo.Context, statusCode int, errorMessage string, details interface{}) error {
	return c.JSON(statusCode, ErrorResponse{
		Error:   errorMessage,
		Details: details,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, errorMessage string, details interface{}) error {
	return ErrorResponseHandler(c, http.StatusBadRequest, errorMessage, details)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Resource not found"
	}
	return ErrorResponseHandler(c, http.StatusNotFound, errorMessage, nil)
}

// ConflictResponse sends a 409 Conflict response
func ConflictResponse(c echo.Context, errorMessage string) error {
	return ErrorResponseHandler(c, http.StatusConflict, errorMessage, nil)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, details interface{}) error {
	return ErrorResponseHandler(c, http.StatusInternalServerError, MessageUnexpectedError, details)
}
