// Package apperr holds sentinel errors shared across vaultpress packages.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a slug, route or attachment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when two vault files map to the same slug.
	ErrConflict = errors.New("conflict")
)
