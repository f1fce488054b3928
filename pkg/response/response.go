package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// AppError represents a structured application error with HTTP status.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Message    string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

// StatusOf returns the HTTP status an error maps to.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// --- Gin response helpers ---

// Success sends a 200 OK response with the bare data as body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// OK sends the {"success": true} acknowledgement used by delete/mark endpoints.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Error sends an error response. If err is an *AppError, its status and
// message are used; otherwise a 500 is returned and the error is recorded
// on the context for the request logger.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorBody{Error: appErr.Message})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: err.Error()})
}

// BadRequest reports a malformed request body.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg})
}
