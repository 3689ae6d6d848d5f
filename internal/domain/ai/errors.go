package ai

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyImage indicates an empty image payload at encoding time.
var ErrEmptyImage = errors.New("image payload is empty")

// ErrInvalidImage indicates the supplied payload is not valid base64.
var ErrInvalidImage = errors.New("image payload is not valid base64")

// ServiceError is a non-success status from the remote model service,
// propagated to the caller unchanged. Transport failures are wrapped
// with %w by the client and are not retried here.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("model service error (status %d): %s", e.StatusCode, e.Message)
}
