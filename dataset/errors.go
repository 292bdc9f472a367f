// Package dataset: sentinel error set.
// Every sentinel wraps one of the root taxonomy classes (mva.ErrDimension,
// mva.ErrConfiguration, mva.ErrDomain) so callers can match either the
// precise condition or the class via errors.Is.

package dataset

import (
	"fmt"

	"github.com/veletar/mva"
)

var (
	// ErrBadShape is returned when a shape has no axes or a non-positive
	// extent.
	ErrBadShape = fmt.Errorf("dataset: invalid shape: %w", mva.ErrDimension)

	// ErrBadNavAxes is returned when the navigation-axis count is not in
	// [1, len(shape)-1].
	ErrBadNavAxes = fmt.Errorf("dataset: navigation axes out of range: %w", mva.ErrConfiguration)

	// ErrSizeMismatch is returned when a buffer length does not match the
	// product of the shape extents.
	ErrSizeMismatch = fmt.Errorf("dataset: buffer length does not match shape: %w", mva.ErrDimension)

	// ErrNilProducer is returned by NewLazy when no producer is supplied.
	ErrNilProducer = fmt.Errorf("dataset: nil deferred producer: %w", mva.ErrConfiguration)

	// ErrBadOrder is returned by Diff for a negative differentiation order.
	ErrBadOrder = fmt.Errorf("dataset: diff order must be >= 0: %w", mva.ErrConfiguration)

	// ErrTooShort is returned by Diff when the differentiated extent would
	// become empty.
	ErrTooShort = fmt.Errorf("dataset: axis too short for diff order: %w", mva.ErrDimension)

	// ErrNotNumeric is returned by FromCSV when a cell cannot be parsed as
	// a float.
	ErrNotNumeric = fmt.Errorf("dataset: non-numeric value: %w", mva.ErrDomain)

	// ErrRagged is returned by FromCSV when record lengths differ.
	ErrRagged = fmt.Errorf("dataset: ragged csv records: %w", mva.ErrDimension)

	// ErrEmpty is returned by FromCSV for an input with no records.
	ErrEmpty = fmt.Errorf("dataset: empty input: %w", mva.ErrDimension)
)
