// Package apperrors holds the domain-level error values shared across the
// service. Handlers map them to HTTP status codes; everything below the
// handler layer returns them wrapped with %w so callers can use errors.Is.
package apperrors

import "errors"

var (
	// ErrAuthRequired means no authenticated user is attached to the call.
	ErrAuthRequired = errors.New("authentication required")
	// ErrRoleRestricted means a policy rule disallows the requested pairing
	// or action, e.g. a subcontractor starting a thread with another
	// subcontractor.
	ErrRoleRestricted = errors.New("role restricted")
	// ErrNotFound covers both "does not exist" and "not visible to this
	// user"; the backend does not distinguish the two.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition means a lifecycle operation was attempted from a
	// state it is not legal in (restore of a non-deleted conversation).
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	// ErrTransient marks backend failures unrelated to business rules.
	ErrTransient = errors.New("transient backend error")
)
