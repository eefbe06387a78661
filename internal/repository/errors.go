// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios.  For example,
// ErrNotFound indicates that the requested record does not exist, while
// ErrEmailExists signals that a signup or profile edit collides with an
// already registered address.
package repository

import "errors"

// ErrNotFound is returned when a user or product lookup matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint.  The conflict is detected with a pre-check query
// so the error is driver independent.  Handlers should translate this into
// an HTTP 400 response, matching the storefront's public contract.
var ErrEmailExists = errors.New("email already exists")
