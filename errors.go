// Package mva: shared error taxonomy.
// Subpackages refine these classes into their own sentinels by wrapping
// (e.g. decompose.ErrOutputDimensionRequired wraps ErrConfiguration), so
// callers can match either the precise condition or the whole class via
// errors.Is. No package returns a bare class sentinel without context.

package mva

import "errors"

var (
	// ErrConfiguration indicates an invalid or missing required option,
	// an unknown algorithm identifier, or conflicting options.
	ErrConfiguration = errors.New("mva: invalid configuration")

	// ErrDomain indicates that the data violates a mathematical
	// precondition of the requested operation (e.g. non-positive values
	// for Poisson normalization).
	ErrDomain = errors.New("mva: data outside algorithm domain")

	// ErrDimension indicates a shape or rank mismatch between data,
	// masks and factors.
	ErrDimension = errors.New("mva: dimension mismatch")

	// ErrDependency indicates that an optional backend required by the
	// requested operation has not been registered.
	ErrDependency = errors.New("mva: optional backend unavailable")
)
