package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/logger"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestID propagates X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// ErrorHandler renders the last error attached by a handler.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
		}
		sendErrorResponse(c, appErr)
	}
}

// Recovery turns panics into an INTERNAL_ERROR response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))
		sendErrorResponse(c, appErr)
		c.Abort()
	})
}

// ErrorResponse is the JSON envelope of every failed request.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)

	appErr.WithRequestID(requestID)
	if userID := getUserID(c); userID != 0 && appErr.UserID == 0 {
		appErr.WithUserID(userID)
	}

	logError(appErr, c)

	statusCode := getHTTPStatusCode(appErr)
	if statusCode == http.StatusInternalServerError {
		// internal details stay in the logs
		appErr = publicInternalError(appErr)
	}

	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

func publicInternalError(appErr *errors.AppError) *errors.AppError {
	return &errors.AppError{
		Code:      appErr.Code,
		Message:   "Internal server error",
		Timestamp: appErr.Timestamp,
		RequestID: appErr.RequestID,
		UserID:    appErr.UserID,
	}
}

func getHTTPStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest, errors.ErrCodeAlreadyExists:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, c *gin.Context) {
	var event *zerolog.Event
	var msg string
	switch {
	case appErr.IsInternal():
		event, msg = logger.Error(), "Internal error occurred"
	case appErr.IsUnauthorized():
		event, msg = logger.Warn(), "Unauthorized access attempt"
	case appErr.IsValidation():
		event, msg = logger.Info(), "Validation error"
	case appErr.IsNotFound():
		event, msg = logger.Info(), "Resource not found"
	default:
		event, msg = logger.Warn(), "Application error occurred"
	}

	event = event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)

	if appErr.Reason != "" {
		event = event.Str("reason", appErr.Reason)
	}
	if appErr.UserID != 0 {
		event = event.Int64("user_id", appErr.UserID)
	}
	if len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msg(msg)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
