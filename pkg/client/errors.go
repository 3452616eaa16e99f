package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when rate-limit retries are capped and all are used.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during backoff.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrMalformedResponse is returned when a response body is not a JSON object.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-success HTTP status from the F1 API.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Path       string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("F1 API %s error (status %d) for %s: %s: %v",
			e.ErrorClass, e.StatusCode, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("F1 API %s error (status %d) for %s: %s",
		e.ErrorClass, e.StatusCode, e.Path, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is an HTTP 429 from the API.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorClass == ErrorClassRateLimit
}

// shouldRetry determines if an error class is retried. Only rate limiting is;
// every other failure is fatal for the run.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassRateLimit:
		return true
	case ErrorClassClient, ErrorClassServer, ErrorClassNetwork:
		return false
	default:
		return false
	}
}
