// Package repository defines error types that are reused across the
// data access layer. These sentinel values allow higher layers such
// as services and handlers to distinguish between failure scenarios
// without string matching. ErrNotFound covers both missing emails
// and missing reset codes; ErrEmailExists maps the database's
// unique-constraint violation so that duplicates are detected from
// the constraint signal instead of a racy pre-check.
package repository

import "errors"

// ErrNotFound is returned when no row matches the lookup key.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique
// email constraint. Handlers should translate this into an HTTP
// 409 response.
var ErrEmailExists = errors.New("email already exists")
