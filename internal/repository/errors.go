package repository

import "github.com/pipetally/pipetally/internal/repository/reperr"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = reperr.ErrNotFound

	// ErrConflict is returned when an optimistic concurrency check fails
	ErrConflict = reperr.ErrConflict

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = reperr.ErrForeignKeyViolation

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = reperr.ErrInvalidInput
)
