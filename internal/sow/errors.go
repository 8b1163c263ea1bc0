package sow

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP layer maps to client-facing status codes.
var (
	// ErrInvalidInput means the request itself was malformed. No state is
	// mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoAnalyzedDocuments means the project has no source document in
	// ANALYZED_SUCCESS. The failed attempt is still recorded on the project
	// so the UI reflects it.
	ErrNoAnalyzedDocuments = errors.New("no successfully analyzed documents found")
)

// ConfigError marks a failure caused by the system's own configuration
// (missing prompt, placeholder-less prompt text, missing topic) rather than
// by the request. Project status is never mutated for these: the request was
// sound, the system is broken.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
