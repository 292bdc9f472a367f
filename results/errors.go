// Package results: sentinel error set, wrapped over the root taxonomy.

package results

import (
	"fmt"

	"github.com/veletar/mva"
)

var (
	// ErrNoDecomposition is returned by operations that require stored
	// decomposition output (crop, summary of components) before any fit.
	ErrNoDecomposition = fmt.Errorf("results: no decomposition stored: %w", mva.ErrConfiguration)

	// ErrBadCrop is returned when the requested component count is not in
	// [1, current number of components].
	ErrBadCrop = fmt.Errorf("results: crop size out of range: %w", mva.ErrDimension)

	// ErrBadArchive is returned when a persisted archive cannot be
	// decoded.
	ErrBadArchive = fmt.Errorf("results: malformed archive: %w", mva.ErrDomain)
)
