// Package errors provides error handling for labelgate.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := writer.Write(entries); err != nil {
//	    return errors.Wrap(err, "write disagreement log")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the confidence_scores column")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Sentinel errors shared across labelgate.
// Use these with errors.Is(); attach context with the constructors below.
var (
	// ErrMalformedRecord indicates an annotation record violates its
	// positional invariants or carries an out-of-range confidence value.
	ErrMalformedRecord = New("malformed record")

	// ErrInvalidInput indicates the input table is structurally unusable
	// (missing columns, unreadable cells).
	ErrInvalidInput = New("invalid input")

	// ErrWriteFailed indicates a promised artifact could not be written.
	ErrWriteFailed = New("write failed")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = New("invalid configuration")
)

// NewMalformedRecordError creates a malformed-record error with a formatted message
func NewMalformedRecordError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrMalformedRecord)
}

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidInput)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

// WrapWriteFailed marks err as a write failure and adds context
func WrapWriteFailed(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrWriteFailed)
}

// IsMalformedRecord checks if an error is or wraps ErrMalformedRecord
func IsMalformedRecord(err error) bool {
	return err != nil && Is(err, ErrMalformedRecord)
}

// IsWriteFailed checks if an error is or wraps ErrWriteFailed
func IsWriteFailed(err error) bool {
	return err != nil && Is(err, ErrWriteFailed)
}
