/* errors.go
 * Error kinds returned by the core operations. Callers classify failures with
 * errors.Is; the web layer maps each kind to an HTTP status.
 */

package shared

import "errors"

var (
	// ErrValidation marks malformed or out-of-bound input, e.g. a timeslot
	// duration outside the allowed range
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing match, timeslot or server, or a
	// precondition state that is absent
	ErrNotFound = errors.New("not found")

	// ErrConflict marks state that already transitioned, e.g. a match whose
	// date is already locked, or a pool with no free server
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks a caller who is not a captain of either team
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a caller missing the required role
	ErrForbidden = errors.New("forbidden")

	// ErrUpstream marks a roster, config or bracket service failure
	ErrUpstream = errors.New("upstream service error")

	// ErrInternal marks a storage failure
	ErrInternal = errors.New("internal error")
)
