package db

import (
	"github.com/r8y/channel-sync-go/internal/db/dberr"
)

// The error taxonomy lives in the leaf package dberr so that the repositories
// can use it without importing this package; re-export it here so consumers
// keep the db.* names.
var (
	// ErrNotFound is returned when a requested record is not found.
	ErrNotFound = dberr.ErrNotFound

	// ErrDuplicateKey is returned when attempting to insert a duplicate record.
	ErrDuplicateKey = dberr.ErrDuplicateKey

	// ErrForeignKeyViolation is returned when a foreign key constraint is violated.
	ErrForeignKeyViolation = dberr.ErrForeignKeyViolation
)

// WrapError wraps database errors with additional context and maps them to custom error types.
func WrapError(err error, operation string) error {
	return dberr.WrapError(err, operation)
}

// IsNotFound returns true if the error is an ErrNotFound error.
func IsNotFound(err error) bool {
	return dberr.IsNotFound(err)
}

// IsDuplicateKey returns true if the error is an ErrDuplicateKey error.
func IsDuplicateKey(err error) bool {
	return dberr.IsDuplicateKey(err)
}

// IsForeignKeyViolation returns true if the error is an ErrForeignKeyViolation error.
func IsForeignKeyViolation(err error) bool {
	return dberr.IsForeignKeyViolation(err)
}
