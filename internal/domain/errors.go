package domain

import "errors"

// Sentinel errors returned by the store and the transaction managers.
// Callers branch on them with errors.Is; the command layer maps each one
// to a localized reply.
var (
	// ErrNotFound marks a lookup that matched no row, when the caller
	// asked for something that must exist (subject code, career code,
	// enrollment period).
	ErrNotFound = errors.New("not found")

	// ErrNoSeats rejects an enrollment in a subject with no seats left.
	ErrNoSeats = errors.New("no seats available")

	// ErrAlreadyEnrolled rejects a second enrollment in the same subject
	// within one period.
	ErrAlreadyEnrolled = errors.New("already enrolled")

	// ErrNotEnrolled rejects a withdrawal from a subject the user is not
	// enrolled in.
	ErrNotEnrolled = errors.New("not enrolled")

	// ErrCareerAssigned rejects any career assignment after the first.
	// The binding is permanent.
	ErrCareerAssigned = errors.New("career already assigned")

	// ErrMissingField rejects a structured command block with a missing
	// or malformed required field.
	ErrMissingField = errors.New("missing required field")

	// ErrDuplicate surfaces a unique-constraint violation (email, subject
	// code, career code).
	ErrDuplicate = errors.New("duplicate")

	// ErrUnavailable surfaces a transient storage failure (busy or locked
	// database). The core does not retry; the user may.
	ErrUnavailable = errors.New("storage unavailable")
)
