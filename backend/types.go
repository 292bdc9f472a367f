package backend

import "gonum.org/v1/gonum/mat"

// Algorithm identifiers of the built-in factorization contracts.
const (
	AlgSVD   = "svd"
	AlgMLPCA = "mlpca"
	AlgRPCA  = "rpca"
	AlgORPCA = "orpca"
	AlgORNMF = "ornmf"
)

// Centre selects the centring applied before an SVD fit.
type Centre string

const (
	// CentreNone leaves the data uncentred.
	CentreNone Centre = ""

	// CentreFeatures subtracts the per-observation mean across feature
	// channels (a navigation-length mean vector).
	CentreFeatures Centre = "features"

	// CentreSamples subtracts the per-channel mean across observations
	// (a signal-length mean vector, the sklearn convention).
	CentreSamples Centre = "samples"
)

// Solver is the SVD solver policy flag. The built-in gonum SVD computes
// the exact decomposition for every policy; the flag is part of the
// contract so externally registered backends can honour it.
type Solver string

const (
	SolverAuto       Solver = "auto"
	SolverFull       Solver = "full"
	SolverRandomized Solver = "randomized"
)

// Result is the fixed output contract of a factorization backend.
type Result struct {
	// Factors is signal × k, one basis vector per column.
	Factors *mat.Dense

	// Loadings is navigation × k, per-observation coefficients.
	Loadings *mat.Dense

	// ExplainedVariance is the per-component variance, nil when the
	// backend does not produce singular values.
	ExplainedVariance []float64

	// Mean is the centring vector subtracted before the fit, nil when
	// uncentred. Its length matches the centred axis.
	Mean []float64
}

// Extra is the optional low-rank/sparse pair produced by the robust
// decompositions in return-extra-info mode.
type Extra struct {
	LowRank *mat.Dense
	Sparse  *mat.Dense
}

// SVDOptions configures the svd contract.
type SVDOptions struct {
	// OutputDimension truncates the decomposition to the leading
	// components; zero keeps min(shape).
	OutputDimension int

	// Centre selects pre-fit centring.
	Centre Centre

	// AutoTranspose factorizes the transpose when the signal extent
	// exceeds the navigation extent, which is cheaper for wide data.
	// Results are reported in the original orientation either way.
	AutoTranspose bool

	// Solver is the solver policy flag.
	Solver Solver

	// FlipSigns applies the deterministic sign convention: each factor
	// column is oriented so its largest-magnitude entry is positive.
	FlipSigns bool
}

// DefaultSVDOptions mirrors the engine defaults: no centring, automatic
// transposition, deterministic signs.
func DefaultSVDOptions() SVDOptions {
	return SVDOptions{AutoTranspose: true, Solver: SolverAuto, FlipSigns: true}
}

// SVDFunc is the fixed signature of the "svd" contract.
type SVDFunc func(data *mat.Dense, opts SVDOptions) (Result, error)

// MLPCAFunc is the fixed signature of the "mlpca" contract: maximum
// likelihood PCA of data under the supplied per-element variance.
// Returns the left vectors u (nav × k), singular values s and right
// vectors v (signal × k).
type MLPCAFunc func(data, variance *mat.Dense, outputDimension int, solver Solver) (u *mat.Dense, s []float64, v *mat.Dense, err error)

// RPCAFunc is the fixed signature of the "rpca" contract (robust PCA
// via GoDec). The low-rank/sparse pair is always produced by the
// algorithm and returned alongside the decomposition.
type RPCAFunc func(data *mat.Dense, rank int) (u *mat.Dense, s []float64, v *mat.Dense, extra *Extra, err error)

// ORPCAOutput is the output of the "orpca" contract. With storeError
// the backend reports the full U/S/V decomposition plus the
// low-rank/sparse pair; without it only the subspace basis R and
// projection L are produced.
type ORPCAOutput struct {
	L *mat.Dense
	R *mat.Dense

	U     *mat.Dense
	S     []float64
	V     *mat.Dense
	Extra *Extra
}

// ORPCAFunc is the fixed signature of the "orpca" contract (online
// robust PCA).
type ORPCAFunc func(data *mat.Dense, rank int, storeError bool) (ORPCAOutput, error)

// ORNMFFunc is the fixed signature of the "ornmf" contract (online
// robust NMF): data ≈ w·h with w navigation × rank and h rank × signal.
// extra is nil unless storeError is set.
type ORNMFFunc func(data *mat.Dense, rank int, storeError bool) (w, h *mat.Dense, extra *Extra, err error)
