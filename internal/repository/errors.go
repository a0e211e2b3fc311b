// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// and services to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when creating a user with an email that is
// already taken (unique constraint violation). Handlers translate this
// into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a requested entity does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as reserving a book that the user already has an
// active reservation for. Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
