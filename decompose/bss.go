package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva/bss"
	"github.com/veletar/mva/dataset"
)

// BlindSourceSeparation separates the components of the most recent
// decomposition into blind sources, storing the unmixing matrix and the
// separated factor/loading pair in the results. The stored BSS block is
// replaced only on success.
func (a *Analyzer) BlindSourceSeparation(opts BSSOptions) error {
	lr := a.results
	if lr == nil || lr.Factors == nil || lr.Loadings == nil {
		return ErrNoDecomposition
	}
	switch opts.ReverseCriterion {
	case bss.ReverseOnFactors, bss.ReverseOnLoadings:
	default:
		return fmt.Errorf("%w: %q", bss.ErrBadCriterion, opts.ReverseCriterion)
	}

	source := lr.Factors
	if opts.OnLoadings {
		source = lr.Loadings
	}
	_, stored := source.Dims()

	selection, err := selectComponents(opts, lr.OutputDimension, stored)
	if err != nil {
		return err
	}
	count := len(selection)

	stack := takeCols(source, selection)
	sampleMask := opts.Mask

	if samples, _ := stack.Dims(); sampleMask != nil && len(sampleMask) != samples {
		return fmt.Errorf("%w: mask %d, samples %d", ErrMaskShape, len(sampleMask), samples)
	}

	if opts.DiffOrder > 0 {
		if sampleMask != nil {
			sampleMask, err = dilateMask(sampleMask, opts.DiffOrder)
			if err != nil {
				return err
			}
		}
		stack, err = dataset.Diff(stack, dataset.Rows, opts.DiffOrder)
		if err != nil {
			return err
		}
	}
	if sampleMask != nil {
		include, err := includeIndices(sampleMask, rowCount(stack))
		if err != nil {
			return err
		}
		stack = takeRows(stack, include)
	}

	whitened, invsq, err := bss.Whiten(stack, true, opts.WhitenMethod)
	if err != nil {
		return err
	}

	raw, name, err := separate(whitened, opts)
	if err != nil {
		return err
	}
	if r, c := raw.Dims(); r != count || c != count {
		return fmt.Errorf("%w: %dx%d for %d components", bss.ErrBadUnmixing, r, c, count)
	}

	// The backend's unmixing refers to whitened coordinates; compose
	// with the whitening matrix to unmix the original components.
	w := mat.NewDense(count, count, nil)
	w.Mul(raw, invsq)

	bss.SortByWeight(w, lr.ExplainedVariance)

	bssFactors, bssLoadings, err := unmix(lr.Factors, lr.Loadings, w, opts.OnLoadings)
	if err != nil {
		return err
	}
	autoReverse(w, bssFactors, bssLoadings, opts.ReverseCriterion)

	lr.UnmixingMatrix = w
	lr.BSSFactors = bssFactors
	lr.BSSLoadings = bssLoadings
	lr.OnLoadings = opts.OnLoadings
	lr.BSSAlgorithm = name
	return nil
}

// selectComponents resolves the component selection in priority order:
// explicit count, explicit list, then the stored output dimension.
func selectComponents(opts BSSOptions, outputDimension, stored int) ([]int, error) {
	var selection []int
	switch {
	case opts.NumberOfComponents > 0:
		selection = FirstComponents(opts.NumberOfComponents)
	case len(opts.ComponentList) > 0:
		selection = opts.ComponentList
	case outputDimension > 0:
		selection = FirstComponents(outputDimension)
	default:
		return nil, ErrNoComponentCount
	}
	for _, c := range selection {
		if c < 0 || c >= stored {
			return nil, fmt.Errorf("%w: component %d of %d", ErrBadComponents, c, stored)
		}
	}
	return selection, nil
}

// dilateMask widens an exclusion mask the way differentiation spreads
// missing values: a masked sample poisons every difference that touches
// it. Exploits NaN propagation through Diff.
func dilateMask(mask []bool, order int) ([]bool, error) {
	carrier := mat.NewDense(len(mask), 1, nil)
	for i, excluded := range mask {
		if excluded {
			carrier.Set(i, 0, math.NaN())
		}
	}
	diffed, err := dataset.Diff(carrier, dataset.Rows, order)
	if err != nil {
		return nil, err
	}
	out := make([]bool, rowCount(diffed))
	for i := range out {
		out[i] = math.IsNaN(diffed.At(i, 0))
	}
	return out, nil
}

// separate dispatches the whitened stack to the configured backend and
// returns the raw unmixing matrix plus the recorded algorithm name.
func separate(whitened *mat.Dense, opts BSSOptions) (*mat.Dense, string, error) {
	if opts.Estimator != nil {
		raw, err := fitEstimator(opts.Estimator, whitened)
		return raw, fmt.Sprintf("%T", opts.Estimator), err
	}
	if opts.Algorithm == bss.AlgOrthomax {
		_, raw, err := bss.Orthomax(whitened, opts.Orthomax)
		return raw, bss.AlgOrthomax, err
	}
	factory, err := bss.Lookup(opts.Algorithm)
	if err != nil {
		return nil, "", err
	}
	est, err := factory(opts.BackendOptions)
	if err != nil {
		return nil, "", err
	}
	raw, err := fitEstimator(est, whitened)
	return raw, opts.Algorithm, err
}

func fitEstimator(est bss.Estimator, whitened *mat.Dense) (*mat.Dense, error) {
	// The data is already white; an estimator that would whiten again is
	// asked to stand down.
	if sw, ok := est.(bss.SelfWhitener); ok && sw.Whitens() {
		sw.DisableWhitening()
	}
	if err := est.Fit(whitened); err != nil {
		return nil, err
	}
	return bss.ExtractUnmixing(est)
}

// unmix applies the unmixing matrix to the leading components of the
// decomposition pair: one side through w, the other through its
// inverse, the sides swapping with onLoadings.
func unmix(factors, loadings, w *mat.Dense, onLoadings bool) (*mat.Dense, *mat.Dense, error) {
	n, _ := w.Dims()
	var winv mat.Dense
	if err := winv.Inverse(w); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSingularUnmixing, err)
	}

	f := copyLeadingCols(factors, n)
	l := copyLeadingCols(loadings, n)

	var bssFactors, bssLoadings mat.Dense
	if onLoadings {
		bssLoadings.Mul(l, w.T())
		bssFactors.Mul(f, &winv)
	} else {
		bssFactors.Mul(f, w.T())
		bssLoadings.Mul(l, &winv)
	}
	return &bssFactors, &bssLoadings, nil
}

// autoReverse canonicalizes component signs: where the criterion column
// has a dominant negative lobe, the component is negated in both arrays
// and in the matching unmixing row.
func autoReverse(w, bssFactors, bssLoadings *mat.Dense, criterion bss.ReverseCriterion) {
	reference := bssFactors
	if criterion == bss.ReverseOnLoadings {
		reference = bssLoadings
	}
	_, k := reference.Dims()
	for c := 0; c < k; c++ {
		if bss.ShouldReverse(mat.Col(nil, c, reference)) {
			scaleColumn(bssFactors, c, -1)
			scaleColumn(bssLoadings, c, -1)
			_, n := w.Dims()
			for j := 0; j < n; j++ {
				w.Set(c, j, -w.At(c, j))
			}
		}
	}
}

func rowCount(m *mat.Dense) int {
	r, _ := m.Dims()
	return r
}

// ReverseBSSComponent flips the sign of the selected separated
// components in the factors, loadings and unmixing rows.
func (a *Analyzer) ReverseBSSComponent(components ...int) error {
	if a.results == nil || a.results.BSSFactors == nil || a.results.BSSLoadings == nil {
		return ErrNoBSS
	}
	return negateColumns(a.results.BSSFactors, a.results.BSSLoadings, a.results.UnmixingMatrix, components)
}

// NormalizeBSSComponents rescales each separated component so that
// norm(target column) is one, scaling the counterpart array inversely.
func (a *Analyzer) NormalizeBSSComponents(target string, norm func([]float64) float64) error {
	if a.results == nil || a.results.BSSFactors == nil || a.results.BSSLoadings == nil {
		return ErrNoBSS
	}
	return normalizeComponents(a.results.BSSFactors, a.results.BSSLoadings, target, norm)
}
