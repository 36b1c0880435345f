package ledger

import "errors"

// Error taxonomy surfaced verbatim to controllers. Forbidden, NotFound,
// Conflict and Validation are deterministic; Upstream marks a notification
// transport failure the employer may retry manually.
var (
	// ErrForbidden means the authorization predicate rejected the actor
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness rule was violated (duplicate application or role)
	ErrConflict = errors.New("conflict")
	// ErrValidation means a required field is missing or malformed
	ErrValidation = errors.New("validation failed")
	// ErrUpstream means the notification provider failed or timed out
	ErrUpstream = errors.New("upstream failure")
)
