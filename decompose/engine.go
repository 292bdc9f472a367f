package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva/backend"
	"github.com/veletar/mva/dataset"
	"github.com/veletar/mva/elbow"
	"github.com/veletar/mva/results"
)

// Analyzer runs decomposition and blind source separation against one
// dataset, holding the results of the most recent fit.
//
// Analyzer is not safe for concurrent use.
type Analyzer struct {
	ds       *dataset.Dataset
	results  *results.LearningResults
	snapshot []float64
	noise    *noiseState
}

// New returns an Analyzer for ds with no results yet.
func New(ds *dataset.Dataset) *Analyzer {
	return &Analyzer{ds: ds}
}

// Dataset returns the analysed dataset.
func (a *Analyzer) Dataset() *dataset.Dataset { return a.ds }

// Results returns the results of the most recent successful fit, nil
// before the first one.
func (a *Analyzer) Results() *results.LearningResults { return a.results }

// Decomposition factorizes the flattened navigation × signal view of
// the dataset with the configured algorithm and stores the outcome.
// The stored results are replaced only on success; any pre-treatment
// of the data is rolled back on every exit path when opts.Copy is set.
//
// The returned Extra is the low-rank/sparse pair of the robust
// backends when opts.ReturnExtra is set, nil otherwise.
func (a *Analyzer) Decomposition(opts Options) (*backend.Extra, error) {
	if !opts.Reproject.valid() {
		return nil, fmt.Errorf("%w: %q", ErrBadReproject, opts.Reproject)
	}
	if a.ds.NavSize() < 2 {
		return nil, fmt.Errorf("%w: navigation size %d", ErrTooFewSamples, a.ds.NavSize())
	}

	var warnings []string

	algorithm, deprecated, randomized := backend.Canonical(opts.Algorithm)
	if deprecated {
		warnings = append(warnings, fmt.Sprintf(
			"algorithm name %q is deprecated, use %q instead", opts.Algorithm, algorithm))
		if randomized {
			opts.Solver = backend.SolverRandomized
		}
	}

	isEstimator := opts.Estimator != nil
	if isEstimator {
		if !backend.IsEstimator(opts.Estimator) {
			return nil, fmt.Errorf("%w: %T", backend.ErrBadEstimator, opts.Estimator)
		}
	} else {
		if !backend.Known(algorithm) {
			return nil, fmt.Errorf("%w: %q", backend.ErrUnknownAlgorithm, opts.Algorithm)
		}
		if backend.RequiresOutputDimension(algorithm) && opts.OutputDimension == 0 {
			return nil, fmt.Errorf("%w: algorithm %q", ErrOutputDimensionRequired, algorithm)
		}
	}

	// Maximum-likelihood fitting models the counting noise itself;
	// rescaling first would fit the wrong statistics.
	if algorithm == backend.AlgMLPCA && opts.NormalizePoissonianNoise {
		warnings = append(warnings,
			"poissonian noise normalization is redundant with mlpca and has been disabled")
		opts.NormalizePoissonianNoise = false
	}
	if opts.NormalizePoissonianNoise && opts.Centre != backend.CentreNone {
		return nil, fmt.Errorf("%w: centre=%q", ErrCentreConflict, opts.Centre)
	}

	navInc, err := includeIndices(opts.NavigationMask, a.ds.NavSize())
	if err != nil {
		return nil, err
	}
	sigInc, err := includeIndices(opts.SignalMask, a.ds.SigSize())
	if err != nil {
		return nil, err
	}

	if opts.Copy {
		snap, err := a.ds.Snapshot()
		if err != nil {
			return nil, err
		}
		a.snapshot = snap
	}

	dc, firstUnfold, err := a.ds.Unfold()
	if err != nil {
		return nil, err
	}
	defer func() {
		if firstUnfold {
			a.ds.Fold()
		}
		if opts.Copy && a.snapshot != nil {
			// Restore failure cannot happen here: the snapshot length
			// matches the buffer it was taken from.
			_ = a.ds.Restore(a.snapshot)
		}
	}()

	if opts.NormalizePoissonianNoise {
		st, err := applyPoissonNoise(dc, navInc, sigInc)
		if err != nil {
			return nil, err
		}
		a.noise = st
	}

	data := subMatrix(dc, navInc, sigInc)

	fit, extra, err := a.dispatch(algorithm, isEstimator, data, opts, &warnings)
	if err != nil {
		return nil, err
	}
	if fit.mean != nil && isEstimator {
		fit.centre = string(backend.CentreSamples)
	}

	var ratio []float64
	significant := 0
	if fit.explained != nil {
		sum := 0.0
		for _, v := range fit.explained {
			sum += v
		}
		ratio = make([]float64, len(fit.explained))
		for i, v := range fit.explained {
			ratio[i] = v / sum
		}
		if len(ratio) >= 2 {
			idx, err := elbow.Estimate(ratio, elbow.DefaultMaxPoints)
			if err != nil {
				return nil, err
			}
			significant = idx + 1
		} else {
			significant = 1
		}
	}

	target := &results.LearningResults{
		Factors:                     fit.factors,
		Loadings:                    fit.loadings,
		ExplainedVariance:           fit.explained,
		ExplainedVarianceRatio:      ratio,
		NumberSignificantComponents: significant,
		DecompositionAlgorithm:      fit.name,
		PoissonianNoiseNormalized:   opts.NormalizePoissonianNoise,
		OutputDimension:             opts.OutputDimension,
		Mean:                        fit.mean,
		Centre:                      fit.centre,
		Unfolded:                    firstUnfold,
		OriginalShape:               a.ds.Shape(),
	}

	// Backends may over-return components; the ratio above is computed
	// first so the pre-crop variance sum is not lost.
	if opts.OutputDimension > 0 {
		if _, k := target.Factors.Dims(); k > opts.OutputDimension {
			if err := target.Crop(opts.OutputDimension); err != nil {
				return nil, err
			}
		}
	}

	reproject, err := a.reproject(target, dc, navInc, sigInc, fit, opts, &warnings)
	if err != nil {
		return nil, err
	}

	if opts.NormalizePoissonianNoise && a.noise != nil {
		warnings = append(warnings, a.noise.reverseOnResults(target.Factors, target.Loadings)...)
	}

	// Re-expand masked axes with NaN and store the masks in the
	// caller's exclusion convention.
	if opts.SignalMask != nil {
		target.SignalMask = append([]bool(nil), opts.SignalMask...)
		if !reproject.signal() {
			if r, _ := target.Factors.Dims(); r == len(sigInc) {
				target.Factors = expandRows(target.Factors, sigInc, a.ds.SigSize())
			}
		}
	}
	if opts.NavigationMask != nil {
		target.NavigationMask = append([]bool(nil), opts.NavigationMask...)
		if !reproject.navigation() {
			if r, _ := target.Loadings.Dims(); r == len(navInc) {
				target.Loadings = expandRows(target.Loadings, navInc, a.ds.NavSize())
			}
		}
	}

	target.Warnings = warnings
	a.results = target
	a.noise = nil
	return extra, nil
}

// fitOutput gathers what a backend produced before it is stored.
type fitOutput struct {
	name      string
	factors   *mat.Dense
	loadings  *mat.Dense
	explained []float64
	mean      []float64
	centre    string
}

func (a *Analyzer) dispatch(algorithm string, isEstimator bool, data *mat.Dense, opts Options, warnings *[]string) (fitOutput, *backend.Extra, error) {
	out := fitOutput{name: algorithm, centre: string(opts.Centre)}
	var extra *backend.Extra

	switch {
	case isEstimator:
		out.name = fmt.Sprintf("%T", opts.Estimator)
		loadings, err := backend.RunEstimator(opts.Estimator, data)
		if err != nil {
			return out, nil, err
		}
		summary, err := backend.Inspect(opts.Estimator)
		if err != nil {
			return out, nil, err
		}
		out.loadings = loadings
		out.factors = summary.Factors
		out.explained = summary.ExplainedVariance
		out.mean = summary.Mean

	case algorithm == backend.AlgSVD:
		res, err := backend.LookupSVD()(data, backend.SVDOptions{
			OutputDimension: opts.OutputDimension,
			Centre:          opts.Centre,
			AutoTranspose:   opts.AutoTranspose,
			Solver:          opts.Solver,
			FlipSigns:       true,
		})
		if err != nil {
			return out, nil, err
		}
		out.factors = res.Factors
		out.loadings = res.Loadings
		out.explained = res.ExplainedVariance
		out.mean = res.Mean

	case algorithm == backend.AlgMLPCA:
		variance, err := resolveVariance(opts.Variance, data, warnings)
		if err != nil {
			return out, nil, err
		}
		fn, err := backend.LookupMLPCA()
		if err != nil {
			return out, nil, err
		}
		u, s, v, err := fn(data, variance, opts.OutputDimension, opts.Solver)
		if err != nil {
			return out, nil, err
		}
		out.loadings = scaleColumns(u, s)
		out.factors = v
		out.explained = varianceFromSingular(s, v)

	case algorithm == backend.AlgRPCA:
		fn, err := backend.LookupRPCA()
		if err != nil {
			return out, nil, err
		}
		u, s, v, ex, err := fn(data, opts.OutputDimension)
		if err != nil {
			return out, nil, err
		}
		out.loadings = scaleColumns(u, s)
		out.factors = v
		out.explained = varianceFromSingular(s, v)
		if opts.ReturnExtra {
			extra = ex
		}

	case algorithm == backend.AlgORPCA:
		fn, err := backend.LookupORPCA()
		if err != nil {
			return out, nil, err
		}
		res, err := fn(data, opts.OutputDimension, opts.ReturnExtra)
		if err != nil {
			return out, nil, err
		}
		if opts.ReturnExtra {
			out.loadings = scaleColumns(res.U, res.S)
			out.factors = res.V
			out.explained = varianceFromSingular(res.S, res.V)
			extra = res.Extra
		} else {
			out.loadings = res.L
			out.factors = mat.DenseCopyOf(res.R.T())
		}

	case algorithm == backend.AlgORNMF:
		fn, err := backend.LookupORNMF()
		if err != nil {
			return out, nil, err
		}
		w, h, ex, err := fn(data, opts.OutputDimension, opts.ReturnExtra)
		if err != nil {
			return out, nil, err
		}
		out.loadings = w
		out.factors = mat.DenseCopyOf(h.T())
		if opts.ReturnExtra {
			extra = ex
		}

	default:
		return out, nil, fmt.Errorf("%w: %q", backend.ErrUnknownAlgorithm, algorithm)
	}
	return out, extra, nil
}

// reproject fills masked axes from the fitted model. The returned value
// is the effective reprojection after any downgrade, which controls the
// NaN re-expansion afterwards.
func (a *Analyzer) reproject(target *results.LearningResults, dc *mat.Dense, navInc, sigInc []int, fit fitOutput, opts Options, warnings *[]string) (Reproject, error) {
	reproject := opts.Reproject
	if reproject == ReprojectNone {
		return reproject, nil
	}
	isEstimator := opts.Estimator != nil

	if reproject.navigation() {
		observed := takeCols(dc, sigInc)
		if !isEstimator {
			subtractRowVector(observed, fit.mean)
			var loadings mat.Dense
			loadings.Mul(observed, target.Factors)
			target.Loadings = &loadings
		} else if pair, ok := opts.Estimator.(backend.FitTransformPair); ok {
			loadings, err := pair.Transform(observed)
			if err != nil {
				return reproject, err
			}
			target.Loadings = loadings
		} else {
			*warnings = append(*warnings,
				"navigation reprojection skipped: estimator does not implement Transform")
			if reproject == ReprojectBoth {
				reproject = ReprojectSignal
			} else {
				reproject = ReprojectNone
			}
		}
	}

	if reproject.signal() {
		if !isEstimator {
			observed := takeRows(dc, navInc)
			subtractRowVector(observed, fit.mean)
			// The fit-time loadings match the included navigation rows;
			// the stored ones may already be reprojected to full extent.
			loadings := fit.loadings
			if _, k := target.Factors.Dims(); k < colCount(loadings) {
				loadings = copyLeadingCols(loadings, k)
			}
			pinv, err := pseudoInverse(loadings)
			if err != nil {
				return reproject, err
			}
			var projected mat.Dense
			projected.Mul(pinv, observed)
			target.Factors = mat.DenseCopyOf(projected.T())
		} else {
			*warnings = append(*warnings,
				"signal reprojection is not supported for estimator backends")
			if reproject == ReprojectBoth {
				reproject = ReprojectNavigation
			} else {
				reproject = ReprojectNone
			}
		}
	}
	return reproject, nil
}

// subtractRowVector subtracts mean from every row of m when the lengths
// line up; a nil mean means the data was never centred.
func subtractRowVector(m *mat.Dense, mean []float64) {
	if mean == nil {
		return
	}
	r, c := m.Dims()
	if len(mean) != c {
		return
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)-mean[j])
		}
	}
}

func resolveVariance(model VarianceModel, data *mat.Dense, warnings *[]string) (*mat.Dense, error) {
	if model.set() > 1 {
		return nil, ErrVarianceConflict
	}
	r, c := data.Dims()
	switch {
	case model.Array != nil:
		vr, vc := model.Array.Dims()
		if vr != r || vc != c {
			return nil, fmt.Errorf("%w: variance %dx%d, data %dx%d", ErrVarianceShape, vr, vc, r, c)
		}
		return model.Array, nil
	case model.Func != nil:
		variance, err := model.Func(data)
		if err != nil {
			return nil, err
		}
		vr, vc := variance.Dims()
		if vr != r || vc != c {
			return nil, fmt.Errorf("%w: variance %dx%d, data %dx%d", ErrVarianceShape, vr, vc, r, c)
		}
		return variance, nil
	case model.PolyCoeffs != nil:
		return polyval(model.PolyCoeffs, data), nil
	default:
		*warnings = append(*warnings,
			"no variance array provided, assuming poisson-distributed data")
		return data, nil
	}
}

// polyval evaluates the polynomial with the given coefficients (highest
// degree first) over every element of data.
func polyval(coeffs []float64, data *mat.Dense) *mat.Dense {
	r, c := data.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			acc := 0.0
			for _, co := range coeffs {
				acc = acc*data.At(i, j) + co
			}
			out.Set(i, j, acc)
		}
	}
	return out
}

// scaleColumns returns u with column j multiplied by s[j], turning left
// singular vectors into loadings.
func scaleColumns(u *mat.Dense, s []float64) *mat.Dense {
	r, c := u.Dims()
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		scale := 1.0
		if j < len(s) {
			scale = s[j]
		}
		for i := 0; i < r; i++ {
			out.Set(i, j, u.At(i, j)*scale)
		}
	}
	return out
}

// varianceFromSingular converts singular values into per-component
// variances, normalized by the signal extent of the factor matrix.
func varianceFromSingular(s []float64, factors *mat.Dense) []float64 {
	rows, _ := factors.Dims()
	out := make([]float64, len(s))
	for i, sv := range s {
		out[i] = sv * sv / float64(rows)
	}
	return out
}

// UndoTreatments restores the data from the pre-treatment snapshot
// taken by the last Decomposition or NormalizePoissonianNoise call.
func (a *Analyzer) UndoTreatments() error {
	if a.snapshot == nil {
		return ErrNoSnapshot
	}
	if err := a.ds.Restore(a.snapshot); err != nil {
		return err
	}
	a.snapshot = nil
	a.noise = nil
	return nil
}

// NormalizePoissonianNoise rescales the data in place for Poisson
// counting statistics, outside of a decomposition run. A snapshot is
// taken first so UndoTreatments can roll the treatment back.
func (a *Analyzer) NormalizePoissonianNoise(navigationMask, signalMask []bool) error {
	navInc, err := includeIndices(navigationMask, a.ds.NavSize())
	if err != nil {
		return err
	}
	sigInc, err := includeIndices(signalMask, a.ds.SigSize())
	if err != nil {
		return err
	}
	if a.snapshot == nil {
		snap, err := a.ds.Snapshot()
		if err != nil {
			return err
		}
		a.snapshot = snap
	}

	dc, firstUnfold, err := a.ds.Unfold()
	if err != nil {
		return err
	}
	if firstUnfold {
		defer a.ds.Fold()
	}

	st, err := applyPoissonNoise(dc, navInc, sigInc)
	if err != nil {
		return err
	}
	a.noise = st
	return nil
}

// GetExplainedVarianceRatio returns a copy of the stored ratio curve.
func (a *Analyzer) GetExplainedVarianceRatio() ([]float64, error) {
	if a.results == nil || a.results.ExplainedVarianceRatio == nil {
		return nil, ErrNoDecomposition
	}
	return append([]float64(nil), a.results.ExplainedVarianceRatio...), nil
}

// EstimateElbowPosition estimates the elbow index of curve, or of the
// stored explained-variance ratio when curve is nil.
func (a *Analyzer) EstimateElbowPosition(curve []float64, maxPoints int) (int, error) {
	if curve == nil {
		if a.results == nil || a.results.ExplainedVarianceRatio == nil {
			return 0, ErrNoDecomposition
		}
		curve = a.results.ExplainedVarianceRatio
	}
	if maxPoints <= 0 {
		maxPoints = elbow.DefaultMaxPoints
	}
	return elbow.Estimate(curve, maxPoints)
}

// ReverseDecompositionComponent flips the sign of the selected
// components in both factors and loadings.
func (a *Analyzer) ReverseDecompositionComponent(components ...int) error {
	if a.results == nil || a.results.Factors == nil || a.results.Loadings == nil {
		return ErrNoDecomposition
	}
	return negateColumns(a.results.Factors, a.results.Loadings, nil, components)
}

// NormalizeDecompositionComponents rescales each component so that
// norm(target column) is one, scaling the counterpart array inversely
// so the product is unchanged. target is "factors" or "loadings"; a nil
// norm sums the column.
func (a *Analyzer) NormalizeDecompositionComponents(target string, norm func([]float64) float64) error {
	if a.results == nil || a.results.Factors == nil || a.results.Loadings == nil {
		return ErrNoDecomposition
	}
	return normalizeComponents(a.results.Factors, a.results.Loadings, target, norm)
}

// FirstComponents returns the selection [0, n) used by the count forms
// of the model and separation operations.
func FirstComponents(n int) []int {
	return allIndices(n)
}

// GetDecompositionModel rebuilds the dataset from the selected
// decomposition components (nil selects all), adding back the stored
// mean when present.
func (a *Analyzer) GetDecompositionModel(components []int) (*dataset.Dataset, error) {
	if a.results == nil || a.results.Factors == nil || a.results.Loadings == nil {
		return nil, ErrNoDecomposition
	}
	return a.rebuild(a.results.Factors, a.results.Loadings, components)
}

// GetBSSModel rebuilds the dataset from the selected separation
// components (nil selects all).
func (a *Analyzer) GetBSSModel(components []int) (*dataset.Dataset, error) {
	if a.results == nil || a.results.BSSFactors == nil || a.results.BSSLoadings == nil {
		return nil, ErrNoBSS
	}
	return a.rebuild(a.results.BSSFactors, a.results.BSSLoadings, components)
}

func (a *Analyzer) rebuild(factors, loadings *mat.Dense, components []int) (*dataset.Dataset, error) {
	_, k := factors.Dims()
	if components != nil {
		for _, c := range components {
			if c < 0 || c >= k {
				return nil, fmt.Errorf("%w: component %d of %d", ErrBadComponents, c, k)
			}
		}
		factors = takeCols(factors, components)
		loadings = takeCols(loadings, components)
	}

	var model mat.Dense
	model.Mul(loadings, factors.T())
	if mean := a.results.Mean; mean != nil {
		r, c := model.Dims()
		if len(mean) == c {
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					model.Set(i, j, model.At(i, j)+mean[j])
				}
			}
		}
	}

	r, c := model.Dims()
	buf := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		buf = append(buf, model.RawRowView(i)...)
	}
	shape, navAxes := []int{r, c}, 1
	if r == a.ds.NavSize() && c == a.ds.SigSize() {
		shape, navAxes = a.ds.Shape(), len(a.ds.NavShape())
	}
	return dataset.New(shape, navAxes, buf)
}

// negateColumns flips the selected columns of both arrays and, when a
// matrix of row weights is supplied, the matching rows of it.
func negateColumns(factors, loadings, unmixing *mat.Dense, components []int) error {
	_, k := factors.Dims()
	for _, c := range components {
		if c < 0 || c >= k {
			return fmt.Errorf("%w: component %d of %d", ErrBadComponents, c, k)
		}
	}
	for _, c := range components {
		scaleColumn(factors, c, -1)
		scaleColumn(loadings, c, -1)
		if unmixing != nil {
			_, n := unmixing.Dims()
			for j := 0; j < n; j++ {
				unmixing.Set(c, j, -unmixing.At(c, j))
			}
		}
	}
	return nil
}

func colCount(m *mat.Dense) int {
	_, c := m.Dims()
	return c
}

func copyLeadingCols(m *mat.Dense, n int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, n, nil)
	out.Copy(m.Slice(0, r, 0, n))
	return out
}

func scaleColumn(m *mat.Dense, col int, by float64) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		m.Set(i, col, m.At(i, col)*by)
	}
}

func normalizeComponents(factors, loadings *mat.Dense, target string, norm func([]float64) float64) error {
	if norm == nil {
		norm = func(col []float64) float64 {
			sum := 0.0
			for _, v := range col {
				if !math.IsNaN(v) {
					sum += v
				}
			}
			return sum
		}
	}
	var primary, other *mat.Dense
	switch target {
	case "factors":
		primary, other = factors, loadings
	case "loadings":
		primary, other = loadings, factors
	default:
		return fmt.Errorf("%w: %q", ErrBadNormalizeTarget, target)
	}
	_, k := primary.Dims()
	for c := 0; c < k; c++ {
		coeff := norm(mat.Col(nil, c, primary))
		if coeff == 0 {
			continue
		}
		scaleColumn(primary, c, 1/coeff)
		scaleColumn(other, c, coeff)
	}
	return nil
}
