// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "errors"

// Error kinds reported by ledger operations. Operations wrap these with
// context; callers classify with errors.Is.
var (
	// ErrUnauthorized means the caller lacks the required role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the operation is not allowed in the current phase.
	ErrForbidden = errors.New("forbidden in current phase")

	// ErrConflict means a duplicate registration or duplicate vote.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means an empty name or out-of-range candidate id.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPrecondition means a structural requirement is unmet, such as
	// opening an election with an empty roster.
	ErrPrecondition = errors.New("precondition failed")

	// ErrNotFound means a query has no answer, such as the winner of an
	// election with no ballots counted.
	ErrNotFound = errors.New("not found")
)

// Kind returns the short classification string for a ledger error, or
// "internal" for anything that is not one of the ledger's error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
