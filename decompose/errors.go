package decompose

import (
	"fmt"

	"github.com/veletar/mva"
)

var (
	// ErrTooFewSamples is returned when the navigation extent is below
	// two; a single observation cannot be decomposed.
	ErrTooFewSamples = fmt.Errorf("decompose: navigation size must be at least 2: %w", mva.ErrDimension)

	// ErrOutputDimensionRequired is returned when the chosen algorithm
	// cannot run without an explicit component count.
	ErrOutputDimensionRequired = fmt.Errorf("decompose: output dimension must be specified: %w", mva.ErrConfiguration)

	// ErrCentreConflict is returned when Poisson normalization is combined
	// with centring; the two rescalings are mutually exclusive.
	ErrCentreConflict = fmt.Errorf("decompose: poissonian noise normalization requires centre to be unset: %w", mva.ErrConfiguration)

	// ErrMaskShape is returned when a mask length does not match the
	// extent of its axis.
	ErrMaskShape = fmt.Errorf("decompose: mask length does not match axis extent: %w", mva.ErrDimension)

	// ErrAllMasked is returned when a mask excludes every position of an
	// axis, leaving nothing to fit.
	ErrAllMasked = fmt.Errorf("decompose: mask excludes the whole axis: %w", mva.ErrDimension)

	// ErrNonPositiveValues is returned when Poisson normalization meets a
	// value at or below zero, which breaks the count-data assumption.
	ErrNonPositiveValues = fmt.Errorf("decompose: non-positive values found in data: %w", mva.ErrDomain)

	// ErrVarianceConflict is returned when more than one variance model
	// is supplied for mlpca.
	ErrVarianceConflict = fmt.Errorf("decompose: only one variance model may be defined: %w", mva.ErrConfiguration)

	// ErrVarianceShape is returned when a variance array does not match
	// the fitted data shape.
	ErrVarianceShape = fmt.Errorf("decompose: variance array shape does not match data: %w", mva.ErrDimension)

	// ErrBadReproject is returned for an unrecognized reprojection target.
	ErrBadReproject = fmt.Errorf("decompose: reproject must be one of \"\", \"navigation\", \"signal\", \"both\": %w", mva.ErrConfiguration)

	// ErrNoSnapshot is returned by UndoTreatments when no pre-treatment
	// copy exists.
	ErrNoSnapshot = fmt.Errorf("decompose: no pre-treatment data to restore, fit with Copy enabled: %w", mva.ErrConfiguration)

	// ErrNoDecomposition is returned by operations that need a prior fit.
	ErrNoDecomposition = fmt.Errorf("decompose: no decomposition results, run Decomposition first: %w", mva.ErrConfiguration)

	// ErrNoBSS is returned by operations that need a prior separation.
	ErrNoBSS = fmt.Errorf("decompose: no separation results, run BlindSourceSeparation first: %w", mva.ErrConfiguration)

	// ErrNoComponentCount is returned when a separation has neither an
	// explicit component count nor a stored output dimension to fall
	// back on.
	ErrNoComponentCount = fmt.Errorf("decompose: no component count or component list provided: %w", mva.ErrConfiguration)

	// ErrBadComponents is returned for a component selection outside the
	// stored range.
	ErrBadComponents = fmt.Errorf("decompose: component selection out of range: %w", mva.ErrConfiguration)

	// ErrBadNormalizeTarget is returned for a normalization target other
	// than "factors" or "loadings".
	ErrBadNormalizeTarget = fmt.Errorf("decompose: normalization target must be \"factors\" or \"loadings\": %w", mva.ErrConfiguration)

	// ErrSingularUnmixing is returned when the unmixing matrix cannot be
	// inverted to compute the complementary separation arrays.
	ErrSingularUnmixing = fmt.Errorf("decompose: unmixing matrix is singular: %w", mva.ErrDomain)
)
