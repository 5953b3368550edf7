package service

import (
	"errors"
)

// Sentinel errors of the service layer. Controllers classify failures with
// errors.Is and turn them into redirects with flash messages.
var (
	// ErrMemberNotFound signals that no member exists for a username.
	ErrMemberNotFound = errors.New("member not found")

	// ErrBookNotFound signals that no book exists for an id.
	ErrBookNotFound = errors.New("book not found")

	// ErrUnauthenticated signals a missing session identity.
	ErrUnauthenticated = errors.New("login required")

	// ErrForbidden signals a failed ownership or permission check. Distinct
	// from not-found so callers can tell "doesn't exist" from "not yours".
	ErrForbidden = errors.New("permission denied")

	// ErrUsernameTaken signals a registration against an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)
