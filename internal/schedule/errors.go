package schedule

import "errors"

var (
	// ErrNotFound indicates the schedule does not exist.
	ErrNotFound = errors.New("schedule not found")
	// ErrValidation indicates missing or malformed input on create/update.
	ErrValidation = errors.New("invalid schedule input")
	// ErrInvalidType indicates an operation applied to the wrong variant
	// (joining a WISH post, for example).
	ErrInvalidType = errors.New("operation not supported for this schedule type")
	// ErrAlreadyJoined indicates the candidate identity is already on the
	// participant list.
	ErrAlreadyJoined = errors.New("already joined")
	// ErrCapacityExhausted indicates the recruit post has no open slots left.
	ErrCapacityExhausted = errors.New("no open slots remaining")
	// ErrConflict indicates a compare-and-swap update lost a race and was not
	// applied. The service retries; callers only see it when retries run out.
	ErrConflict = errors.New("concurrent modification")
)
