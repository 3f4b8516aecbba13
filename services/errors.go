package services

import "errors"

// Sentinel errors shared by all services. Controllers map them onto the
// HTTP envelope; everything else propagates as a generic failure.
var (
	// ErrNotFound: the id does not resolve to a live row.
	ErrNotFound = errors.New("record not found")
	// ErrPermissionDenied: the actor lacks author or staff rights. Raised
	// before any mutation, so a denied call has no partial effect.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict: a uniqueness or referential constraint blocks the write
	// (duplicate category name, category still referenced by threads).
	ErrConflict = errors.New("conflict")
)
