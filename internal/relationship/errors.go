package relationship

import "errors"

// Failures returned by Scheduler operations. Handlers map them to HTTP status
// codes with errors.Is. Business-rule outcomes (blocked, duplicate, ...) are
// never errors; they are carried by Result.
var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidState   = errors.New("invalid state")
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDuplicateRequest is returned by UserStore.Apply when the friend request
	// being appended collides with one already pending from the same sender.
	ErrDuplicateRequest = errors.New("duplicate friend request")
)
