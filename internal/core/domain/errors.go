package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete error below wraps exactly one of them so the
// transport layer can classify failures with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid")
	ErrUpstream     = errors.New("upstream failure")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrClassNotFound      = fmt.Errorf("class %w", ErrNotFound)
	ErrTeacherNotFound    = fmt.Errorf("teacher application %w", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("submission %w", ErrNotFound)
	ErrCartEntryNotFound  = fmt.Errorf("cart entry %w", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", ErrNotFound)

	ErrUserExists          = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrApplicationExists   = fmt.Errorf("%w: teacher application already exists", ErrConflict)
	ErrAlreadyEnrolled     = fmt.Errorf("%w: already enrolled", ErrConflict)
	ErrDuplicateSubmission = fmt.Errorf("%w: assignment already submitted", ErrConflict)
	ErrCheckoutInProgress  = fmt.Errorf("%w: checkout already in progress", ErrConflict)

	ErrInvalidID        = fmt.Errorf("%w: malformed id", ErrInvalid)
	ErrInvalidDecision  = fmt.Errorf("%w: unknown moderation decision", ErrInvalid)
	ErrClassNotApproved = fmt.Errorf("%w: class is not approved for sale", ErrInvalid)

	ErrMissingToken = fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)

	ErrNotAdmin = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrNotOwner = fmt.Errorf("%w: resource belongs to another user", ErrForbidden)

	ErrPaymentProvider = fmt.Errorf("%w: payment provider", ErrUpstream)
)

// Invalidf builds an ErrInvalid with a field level message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Kind returns the short machine-readable name of the error kind wrapped by err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, ErrUpstream):
		return "upstream_failure"
	default:
		return "internal"
	}
}
