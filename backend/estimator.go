package backend

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FitTransformer is the single-call estimator capability: fit on data
// and return the loadings (navigation × k) in one step.
type FitTransformer interface {
	FitTransform(data *mat.Dense) (*mat.Dense, error)
}

// FitTransformPair is the two-call estimator capability.
type FitTransformPair interface {
	Fit(data *mat.Dense) error
	Transform(data *mat.Dense) (*mat.Dense, error)
}

// ComponentsGetter exposes the fitted components (k × signal, one
// component per row, the sklearn layout).
type ComponentsGetter interface {
	Components() *mat.Dense
}

// ExplainedVarianceGetter exposes the fitted per-component variance.
type ExplainedVarianceGetter interface {
	ExplainedVariance() []float64
}

// MeanGetter exposes the fitted centring vector (signal length). Its
// presence forces samples-centring bookkeeping downstream.
type MeanGetter interface {
	Mean() []float64
}

// Unwrapper marks composite estimators (pipelines, parameter searches)
// that delegate their fitted attributes to a final stage.
type Unwrapper interface {
	LastStage() any
}

// Unwrap follows LastStage links to the terminal estimator.
func Unwrap(est any) any {
	for {
		u, ok := est.(Unwrapper)
		if !ok {
			return est
		}
		est = u.LastStage()
	}
}

// IsEstimator reports whether est satisfies either estimator capability
// set.
func IsEstimator(est any) bool {
	switch est.(type) {
	case FitTransformer, FitTransformPair:
		return true
	}
	return false
}

// RunEstimator fits est on data and returns the loadings. Dispatch is
// an explicit match over the two capability sets, FitTransform first.
func RunEstimator(est any, data *mat.Dense) (*mat.Dense, error) {
	switch e := est.(type) {
	case FitTransformer:
		return e.FitTransform(data)
	case FitTransformPair:
		if err := e.Fit(data); err != nil {
			return nil, fmt.Errorf("backend: estimator fit: %w", err)
		}
		return e.Transform(data)
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadEstimator, est)
	}
}

// FitSummary carries the fitted attributes read from an estimator's
// final stage after RunEstimator.
type FitSummary struct {
	// Factors is signal × k (the transposed components).
	Factors *mat.Dense

	// ExplainedVariance is nil when the stage exposes none.
	ExplainedVariance []float64

	// Mean is nil when the stage exposes none; when present the caller
	// must record samples-centring.
	Mean []float64
}

// Inspect unwraps est to its final stage and reads the fitted
// attributes. Components are mandatory: without them there are no
// factors to store.
func Inspect(est any) (FitSummary, error) {
	last := Unwrap(est)
	var out FitSummary
	cg, ok := last.(ComponentsGetter)
	if !ok || cg.Components() == nil {
		return out, fmt.Errorf("%w: final stage %T exposes no components", ErrBadEstimator, last)
	}
	comp := cg.Components()
	k, sig := comp.Dims()
	factors := mat.NewDense(sig, k, nil)
	factors.Copy(comp.T())
	out.Factors = factors

	if eg, ok := last.(ExplainedVarianceGetter); ok {
		out.ExplainedVariance = eg.ExplainedVariance()
	}
	if mg, ok := last.(MeanGetter); ok {
		out.Mean = mg.Mean()
	}
	return out, nil
}
