package service

import "errors"

// Domain outcomes of the auth state machine. The messages are fixed,
// user-visible strings: login deliberately reports the same error for an
// unknown email and a wrong password, and refresh reports the same error for
// a missing user, a missing session and a mismatched token.
var (
	// ErrInvalidCredentials maps to HTTP 401 on login.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrAccessDenied maps to HTTP 401 on refresh.
	ErrAccessDenied = errors.New("Access denied")
	// ErrUserNotFound maps to HTTP 401 on profile reads.
	ErrUserNotFound = errors.New("User not found")
	// ErrInternal hides storage and signing faults from callers.
	ErrInternal = errors.New("internal error")
)
