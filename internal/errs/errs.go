// Package errs defines the error kinds the ledger reports and thin helpers
// over cockroachdb/errors for wrapping and marking them.
//
// Kinds are sentinels attached as cockroachdb marks; callers test with errs.Is
// (or cockroachdb/errors.Is), since the stdlib errors.Is does not see marks.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

var (
	// ErrValidation marks malformed or missing check-in input.
	ErrValidation = cr.New("validation error")

	// ErrPermissionDenied marks a wrong administrative secret.
	ErrPermissionDenied = cr.New("permission denied")

	// ErrArchive marks a failure while writing the archive artifact.
	ErrArchive = cr.New("archive error")

	// ErrStorage marks any lower-level persistence failure.
	ErrStorage = cr.New("storage error")
)

// Wrap annotates err with msg. Returns nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

// New returns a plain error with a stack trace.
func New(msg string) error {
	return cr.New(msg)
}

// Mark tags err with the given kind so errors.Is(err, kind) holds.
func Mark(err error, kind error) error {
	if err == nil {
		return kind
	}
	return cr.Mark(err, kind)
}

// Validation returns a new error of kind ErrValidation.
func Validation(format string, args ...any) error {
	return cr.Mark(cr.Newf(format, args...), ErrValidation)
}

// Storage wraps a persistence failure as ErrStorage.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Mark(cr.Wrap(err, msg), ErrStorage)
}

// Is reports whether err matches target anywhere in its chain.
func Is(err, target error) bool {
	return cr.Is(err, target)
}
