package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Report errors
	ErrReportNotFound    = errors.New("no report available")
	ErrUnknownReportKind = errors.New("unknown report type")
	ErrNilReport         = errors.New("report cannot be nil")

	// Scan errors
	ErrScanCancelled = errors.New("scan cancelled before finalization")

	// Job errors
	ErrJobNotFound = errors.New("job not found")

	// Repository errors
	ErrCorruptState        = errors.New("corrupt persisted state")
	ErrSerializationFailed = errors.New("serialization failed")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// CorruptStateError reports a persisted value that exists but cannot be decoded.
// Readers treat the slot as absent instead of failing the caller.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("corrupt persisted state for key %q", e.Key)
	}
	return fmt.Sprintf("corrupt persisted state for key %q: %v", e.Key, e.Err)
}

// Unwrap exposes both the sentinel and the decode failure to errors.Is.
func (e *CorruptStateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorruptState}
	}
	return []error{ErrCorruptState, e.Err}
}
