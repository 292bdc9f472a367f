package bss

import "gonum.org/v1/gonum/mat"

// Separation algorithm identifiers. AlgOrthomax is built in; the rest
// name external toolkit backends supplied through Register.
const (
	AlgOrthomax = "orthomax"
	AlgFastICA  = "fastica"
	AlgJADE     = "jade"
	AlgCuBICA   = "cubica"
	AlgTDSEP    = "tdsep"
)

// WhitenMethod selects how Whiten decorrelates the data.
type WhitenMethod string

const (
	// WhitenPCA projects onto the covariance eigenbasis and rescales,
	// so whitened features are ordered by decreasing original variance.
	WhitenPCA WhitenMethod = "pca"

	// WhitenZCA rotates back into the original basis after rescaling,
	// keeping whitened features as close as possible to the input ones.
	WhitenZCA WhitenMethod = "zca"
)

// ReverseCriterion selects which array the per-component sign-reversal
// heuristic inspects.
type ReverseCriterion string

const (
	ReverseOnFactors  ReverseCriterion = "factors"
	ReverseOnLoadings ReverseCriterion = "loadings"
)

// OrthomaxOptions parameterizes the built-in rotation.
type OrthomaxOptions struct {
	// Gamma interpolates the rotation family: 1 is varimax, 0 is
	// quartimax. Must lie in [0, 1].
	Gamma float64

	// Tol is the relative convergence tolerance on the singular-value
	// sum of the rotation update.
	Tol float64

	// MaxIter bounds the inner iteration count.
	MaxIter int
}

// DefaultOrthomaxOptions returns the varimax rotation with the
// customary tolerance.
func DefaultOrthomaxOptions() OrthomaxOptions {
	return OrthomaxOptions{
		Gamma:   1.0,
		Tol:     1.4901e-07,
		MaxIter: 256,
	}
}

// Estimator is the minimal contract of an external BSS backend: fit on
// whitened samples × features data. The unmixing matrix is read
// afterwards through UnmixingGetter or, failing that, ComponentsGetter.
type Estimator interface {
	Fit(data *mat.Dense) error
}

// UnmixingGetter exposes the fitted k×k raw unmixing matrix.
type UnmixingGetter interface {
	UnmixingMatrix() *mat.Dense
}

// ComponentsGetter is the fallback accessor for backends that publish
// the unmixing matrix under the components name.
type ComponentsGetter interface {
	Components() *mat.Dense
}

// SelfWhitener marks an estimator that would whiten internally. The
// engine whitens beforehand, so such an estimator is asked to stand
// down before fitting.
type SelfWhitener interface {
	Whitens() bool
	DisableWhitening()
}
