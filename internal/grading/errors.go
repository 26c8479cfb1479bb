package grading

import "errors"

// Errors reported by Judge implementations. The pipeline absorbs all of
// them; they exist so implementations and tests can classify failures.
var (
	// ErrInvalidConfig is returned when a judge is constructed with
	// missing or invalid settings.
	ErrInvalidConfig = errors.New("invalid judge configuration")

	// ErrInvalidResponse is returned when the judgment service responds
	// with content that does not match the expected schema.
	ErrInvalidResponse = errors.New("invalid judgment service response")

	// ErrTransientFailure is returned for failures worth retrying, such as
	// network errors and timeouts.
	ErrTransientFailure = errors.New("transient judgment service failure")

	// ErrContentBlocked is returned when the service refuses to grade the
	// submitted content.
	ErrContentBlocked = errors.New("content blocked by judgment service")
)
