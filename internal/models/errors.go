package models

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned before any pipeline stage runs when the
// required text is empty after trimming.
var ErrInvalidInput = errors.New("content text is required")

// ExternalServiceError wraps a network/HTTP failure talking to the
// generative-text provider. Callers may retry these with backoff; the
// pipeline itself never does.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external generation service failed: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MalformedResponseError means the provider answered but the payload failed
// schema validation. Retrying the same prompt is pointless, so callers must
// treat this separately from ExternalServiceError.
type MalformedResponseError struct {
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

// IsRetryable reports whether err is worth retrying against the provider.
func IsRetryable(err error) bool {
	var ese *ExternalServiceError
	return errors.As(err, &ese)
}
