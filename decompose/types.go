package decompose

import (
	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva/backend"
	"github.com/veletar/mva/bss"
)

// Reproject selects which masked axes are filled in from the fitted
// model after decomposition.
type Reproject string

const (
	ReprojectNone       Reproject = ""
	ReprojectNavigation Reproject = "navigation"
	ReprojectSignal     Reproject = "signal"
	ReprojectBoth       Reproject = "both"
)

func (r Reproject) navigation() bool { return r == ReprojectNavigation || r == ReprojectBoth }
func (r Reproject) signal() bool     { return r == ReprojectSignal || r == ReprojectBoth }

func (r Reproject) valid() bool {
	switch r {
	case ReprojectNone, ReprojectNavigation, ReprojectSignal, ReprojectBoth:
		return true
	}
	return false
}

// VarianceModel describes the per-element variance used by mlpca. At
// most one field may be set; with none set the data itself is used as
// its own variance, the Poisson assumption for count data.
type VarianceModel struct {
	// Array is an explicit variance matrix matching the fitted data
	// shape.
	Array *mat.Dense

	// Func derives the variance from the fitted data.
	Func func(data *mat.Dense) (*mat.Dense, error)

	// PolyCoeffs evaluates a polynomial (highest degree first) over the
	// data to obtain the variance.
	PolyCoeffs []float64
}

func (v VarianceModel) set() int {
	n := 0
	if v.Array != nil {
		n++
	}
	if v.Func != nil {
		n++
	}
	if v.PolyCoeffs != nil {
		n++
	}
	return n
}

// Options configures one Decomposition run.
type Options struct {
	// Algorithm is a built-in identifier or one of the deprecated
	// aliases. Ignored when Estimator is set.
	Algorithm string

	// Estimator is a capability-polymorphic backend dispatched through
	// the estimator contracts instead of a named identifier.
	Estimator any

	// OutputDimension is the number of components to keep; zero keeps
	// min(shape). Mandatory for mlpca, rpca, orpca and ornmf.
	OutputDimension int

	// Centre selects svd pre-fit centring.
	Centre backend.Centre

	// AutoTranspose lets the svd backend factorize whichever orientation
	// is cheaper.
	AutoTranspose bool

	// NormalizePoissonianNoise rescales the data for count statistics
	// before fitting and undoes the scaling on the results.
	NormalizePoissonianNoise bool

	// NavigationMask and SignalMask exclude positions (true = excluded)
	// from the fit.
	NavigationMask []bool
	SignalMask     []bool

	// Variance is the mlpca variance model.
	Variance VarianceModel

	// Reproject projects the fitted model into the masked regions.
	Reproject Reproject

	// Solver is the SVD solver policy flag.
	Solver backend.Solver

	// Copy snapshots the data before any pre-treatment so it can be
	// restored afterwards and by UndoTreatments.
	Copy bool

	// ReturnExtra asks the robust backends for their low-rank/sparse
	// pair.
	ReturnExtra bool
}

// DefaultOptions returns the standard configuration: plain svd, data
// snapshot enabled.
func DefaultOptions() Options {
	return Options{
		Algorithm:     backend.AlgSVD,
		AutoTranspose: true,
		Solver:        backend.SolverAuto,
		Copy:          true,
	}
}

// BSSOptions configures one BlindSourceSeparation run.
type BSSOptions struct {
	// NumberOfComponents selects the leading components to separate.
	// Zero defers to ComponentList, then to the stored output dimension.
	NumberOfComponents int

	// ComponentList selects specific components by index.
	ComponentList []int

	// Algorithm is "orthomax" or the name of a registered external
	// backend. Ignored when Estimator is set.
	Algorithm string

	// Estimator is a caller-supplied separation backend.
	Estimator bss.Estimator

	// DiffOrder differentiates the separated arrays before whitening;
	// zero disables the pre-processing.
	DiffOrder int

	// OnLoadings separates the loadings instead of the factors.
	OnLoadings bool

	// Mask excludes samples (signal channels, or navigation positions
	// when OnLoadings) from the separation; true = excluded.
	Mask []bool

	// ReverseCriterion selects the array inspected by the sign-reversal
	// heuristic.
	ReverseCriterion bss.ReverseCriterion

	// WhitenMethod selects the whitening variant.
	WhitenMethod bss.WhitenMethod

	// Orthomax parameterizes the built-in rotation.
	Orthomax bss.OrthomaxOptions

	// BackendOptions is forwarded opaquely to an external backend
	// factory.
	BackendOptions map[string]any
}

// DefaultBSSOptions returns the standard separation configuration:
// the built-in orthomax rotation on first-order differences.
func DefaultBSSOptions() BSSOptions {
	return BSSOptions{
		Algorithm:        bss.AlgOrthomax,
		DiffOrder:        1,
		ReverseCriterion: bss.ReverseOnFactors,
		WhitenMethod:     bss.WhitenPCA,
		Orthomax:         bss.DefaultOrthomaxOptions(),
	}
}
