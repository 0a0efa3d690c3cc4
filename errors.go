package campus

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrEmptyMessage indicates a chat question with no visible text.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrStreamNotReady indicates Message() was called before Next().
	ErrStreamNotReady = errors.New("stream not ready: call Next() first")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrNotFound indicates the requested session does not exist.
	ErrNotFound = errors.New("not found")
)
