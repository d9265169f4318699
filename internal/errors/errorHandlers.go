package errors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeInvalidRequest  ErrorType = "INVALID_REQUEST"
	ErrorTypeSessionExpired  ErrorType = "SESSION_EXPIRED"
	ErrorTypeRateLimited     ErrorType = "RATE_LIMITED"
	ErrorTypeStorageFailure  ErrorType = "STORAGE_FAILURE"
	ErrorTypeUpstreamFailure ErrorType = "UPSTREAM_FAILURE"
)

// CustomError represents a custom error with associated HTTP status code and type
type CustomError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	RetryAfter time.Duration
	Internal   error
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Internal
}

func newError(errType ErrorType, message string, statusCode int, internal error) *CustomError {
	return &CustomError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewInvalidRequestError flags a request the client must fix before resubmitting.
func NewInvalidRequestError(message string) *CustomError {
	return newError(ErrorTypeInvalidRequest, message, http.StatusBadRequest, nil)
}

// NewSessionExpiredError flags an unknown or expired session. The client is
// expected to mint a new session and retry the original operation once.
func NewSessionExpiredError() *CustomError {
	return newError(ErrorTypeSessionExpired, "Session expired or invalid", http.StatusUnauthorized, nil)
}

// NewRateLimitedError carries the duration the caller must wait before retrying.
func NewRateLimitedError(retryAfter time.Duration) *CustomError {
	err := newError(ErrorTypeRateLimited,
		fmt.Sprintf("Too many requests, retry after %.1fs", retryAfter.Seconds()),
		http.StatusTooManyRequests, nil)
	err.RetryAfter = retryAfter
	return err
}

// NewStorageFailureError wraps a transient persistence failure.
func NewStorageFailureError(internal error) *CustomError {
	return newError(ErrorTypeStorageFailure, "An unexpected storage error occurred", http.StatusInternalServerError, internal)
}

// NewUpstreamFailureError wraps a failure from the text-generation service.
func NewUpstreamFailureError(internal error) *CustomError {
	return newError(ErrorTypeUpstreamFailure, "The assistant service is unavailable", http.StatusBadGateway, internal)
}

// IsType reports whether err is a CustomError of the given type.
func IsType(err error, errType ErrorType) bool {
	customErr, ok := err.(*CustomError)
	return ok && customErr.Type == errType
}

// HandleError handles the custom error and sends an appropriate JSON response
func HandleError(c *gin.Context, err error) {
	var customErr *CustomError
	var ok bool

	if customErr, ok = err.(*CustomError); !ok {
		customErr = NewStorageFailureError(err)
	}

	// Log internal infrastructure errors
	if customErr.Internal != nil {
		log.Error().
			Err(customErr.Internal).
			Str("type", string(customErr.Type)).
			Str("url", c.Request.URL.String()).
			Msg("Request failed")
	}

	body := gin.H{
		"type":    customErr.Type,
		"message": customErr.Message,
	}
	if customErr.RetryAfter > 0 {
		body["retry_after_seconds"] = customErr.RetryAfter.Seconds()
		c.Header("Retry-After", fmt.Sprintf("%.0f", customErr.RetryAfter.Seconds()))
	}

	c.JSON(customErr.StatusCode, gin.H{"error": body})
}
