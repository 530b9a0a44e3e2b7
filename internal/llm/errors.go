package llm

import "errors"

// Sentinel causes for pipeline failures. The terminal error returned by
// Refine wraps whichever of these the last attempt produced, so callers can
// classify with errors.Is.
var (
	// ErrProvider marks a non-success response from the remote backend.
	ErrProvider = errors.New("provider request failed")

	// ErrTimeout marks an attempt that exceeded the per-request deadline.
	ErrTimeout = errors.New("provider timed out")

	// ErrResponseFormat marks a response that could not be parsed into the
	// requested structure even after repair.
	ErrResponseFormat = errors.New("malformed provider response")
)
