// Package errors provides error handling for kinsim.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details surfaced to the CLI user
//
// Usage:
//
//	// Wrap with context
//	if err := loadTable(path); err != nil {
//	    return errors.Wrap(err, "failed to load rate table")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrConfiguration) {
//	    // fatal: bad or missing input table
//	}
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
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll

	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the kinsim failure taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrConfiguration indicates a missing or malformed input table.
	// Always fatal; reported once at load time with the attempted filenames.
	ErrConfiguration = New("configuration error")

	// ErrEmptyTable indicates a sampling table with no usable rows.
	// Fatal for that table's consumers.
	ErrEmptyTable = New("empty table")

	// ErrDomain indicates a lookup key outside any valid range
	// (e.g., a negative age). Keys inside the domain but outside the
	// loaded buckets are clamped, not errored.
	ErrDomain = New("key outside valid domain")
)

// IsConfigurationError checks if an error is or wraps ErrConfiguration.
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsEmptyTableError checks if an error is or wraps ErrEmptyTable.
func IsEmptyTableError(err error) bool {
	return err != nil && Is(err, ErrEmptyTable)
}

// IsDomainError checks if an error is or wraps ErrDomain.
func IsDomainError(err error) bool {
	return err != nil && Is(err, ErrDomain)
}

// NewConfigurationError creates a configuration error with a formatted message.
func NewConfigurationError(format string, args ...interface{}) error {
	return Wrap(ErrConfiguration, Newf(format, args...).Error())
}

// NewDomainError creates a domain error with a formatted message.
func NewDomainError(format string, args ...interface{}) error {
	return Wrap(ErrDomain, Newf(format, args...).Error())
}
