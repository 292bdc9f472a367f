package decompose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva"
	"github.com/veletar/mva/bss"
	"github.com/veletar/mva/decompose"
)

// fittedAnalyzer decomposes the counts fixture with three components.
func fittedAnalyzer(t *testing.T) *decompose.Analyzer {
	t.Helper()
	an := decompose.New(countsDataset(t))
	opts := decompose.DefaultOptions()
	opts.OutputDimension = 3
	_, err := an.Decomposition(opts)
	require.NoError(t, err)
	return an
}

func TestBSS_OrthomaxInvariance(t *testing.T) {
	an := fittedAnalyzer(t)
	lr := an.Results()
	want := mat.DenseCopyOf(reconstruction(lr.Factors, lr.Loadings))

	require.NoError(t, an.BlindSourceSeparation(decompose.DefaultBSSOptions()))

	assert.Equal(t, bss.AlgOrthomax, lr.BSSAlgorithm)
	r, c := lr.UnmixingMatrix.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	// Unmixing is a change of basis inside the component subspace; the
	// separated pair must rebuild the same model.
	model := reconstruction(lr.BSSFactors, lr.BSSLoadings)
	assert.True(t, mat.EqualApprox(want, model, 1e-8))
}

func TestBSS_OnLoadings(t *testing.T) {
	an := fittedAnalyzer(t)
	lr := an.Results()
	want := mat.DenseCopyOf(reconstruction(lr.Factors, lr.Loadings))

	opts := decompose.DefaultBSSOptions()
	opts.OnLoadings = true
	require.NoError(t, an.BlindSourceSeparation(opts))

	assert.True(t, lr.OnLoadings)
	model := reconstruction(lr.BSSFactors, lr.BSSLoadings)
	assert.True(t, mat.EqualApprox(want, model, 1e-8))
}

func TestBSS_RequiresDecomposition(t *testing.T) {
	an := decompose.New(countsDataset(t))
	err := an.BlindSourceSeparation(decompose.DefaultBSSOptions())
	assert.ErrorIs(t, err, decompose.ErrNoDecomposition)
}

func TestBSS_NoComponentCount(t *testing.T) {
	an := decompose.New(countsDataset(t))
	_, err := an.Decomposition(decompose.DefaultOptions())
	require.NoError(t, err)

	err = an.BlindSourceSeparation(decompose.DefaultBSSOptions())
	assert.ErrorIs(t, err, decompose.ErrNoComponentCount)
	assert.ErrorIs(t, err, mva.ErrConfiguration)
}

func TestBSS_ComponentListOutOfRange(t *testing.T) {
	an := fittedAnalyzer(t)
	opts := decompose.DefaultBSSOptions()
	opts.ComponentList = []int{0, 12}
	err := an.BlindSourceSeparation(opts)
	assert.ErrorIs(t, err, decompose.ErrBadComponents)
}

func TestBSS_UnknownAndUnregisteredBackends(t *testing.T) {
	an := fittedAnalyzer(t)

	opts := decompose.DefaultBSSOptions()
	opts.Algorithm = "deep-sobi"
	err := an.BlindSourceSeparation(opts)
	assert.ErrorIs(t, err, bss.ErrUnknownAlgorithm)
	assert.ErrorIs(t, err, mva.ErrConfiguration)

	opts.Algorithm = bss.AlgCuBICA
	err = an.BlindSourceSeparation(opts)
	assert.ErrorIs(t, err, bss.ErrNotRegistered)
	assert.ErrorIs(t, err, mva.ErrDependency)
}

func TestBSS_ClearedOnRefit(t *testing.T) {
	an := fittedAnalyzer(t)
	require.NoError(t, an.BlindSourceSeparation(decompose.DefaultBSSOptions()))
	require.NotNil(t, an.Results().BSSFactors)

	opts := decompose.DefaultOptions()
	opts.OutputDimension = 3
	_, err := an.Decomposition(opts)
	require.NoError(t, err)

	lr := an.Results()
	assert.Nil(t, lr.BSSFactors)
	assert.Nil(t, lr.BSSLoadings)
	assert.Nil(t, lr.UnmixingMatrix)
	assert.Empty(t, lr.BSSAlgorithm)
}

func TestBSS_MaskExcludesSamples(t *testing.T) {
	an := fittedAnalyzer(t)

	mask := make([]bool, 8)
	mask[3] = true

	opts := decompose.DefaultBSSOptions()
	opts.Mask = mask
	require.NoError(t, an.BlindSourceSeparation(opts))

	r, _ := an.Results().UnmixingMatrix.Dims()
	assert.Equal(t, 3, r)
}

func TestBSS_MaskShapeError(t *testing.T) {
	an := fittedAnalyzer(t)
	opts := decompose.DefaultBSSOptions()
	opts.Mask = []bool{true}
	err := an.BlindSourceSeparation(opts)
	assert.ErrorIs(t, err, decompose.ErrMaskShape)
}

// passthroughICA leaves the whitened coordinates untouched and records
// whether its own whitening was switched off.
type passthroughICA struct {
	whiten   bool
	disabled bool
	k        int
}

func (p *passthroughICA) Whitens() bool     { return p.whiten }
func (p *passthroughICA) DisableWhitening() { p.disabled = true }
func (p *passthroughICA) Fit(data *mat.Dense) error {
	_, p.k = data.Dims()
	return nil
}

func (p *passthroughICA) UnmixingMatrix() *mat.Dense {
	w := mat.NewDense(p.k, p.k, nil)
	for i := 0; i < p.k; i++ {
		w.Set(i, i, 1)
	}
	return w
}

func TestBSS_CustomEstimator(t *testing.T) {
	an := fittedAnalyzer(t)
	lr := an.Results()
	want := mat.DenseCopyOf(reconstruction(lr.Factors, lr.Loadings))

	est := &passthroughICA{whiten: true}
	opts := decompose.DefaultBSSOptions()
	opts.Estimator = est
	require.NoError(t, an.BlindSourceSeparation(opts))

	assert.True(t, est.disabled, "engine whitening wins over the estimator's")
	assert.Equal(t, 3, est.k)
	assert.Contains(t, lr.BSSAlgorithm, "passthroughICA")

	model := reconstruction(lr.BSSFactors, lr.BSSLoadings)
	assert.True(t, mat.EqualApprox(want, model, 1e-8))
}

func TestReverseBSSComponent(t *testing.T) {
	an := fittedAnalyzer(t)
	require.NoError(t, an.BlindSourceSeparation(decompose.DefaultBSSOptions()))
	lr := an.Results()

	factorCol := mat.Col(nil, 1, lr.BSSFactors)
	unmixRow := mat.Row(nil, 1, lr.UnmixingMatrix)

	require.NoError(t, an.ReverseBSSComponent(1))

	for i, v := range mat.Col(nil, 1, lr.BSSFactors) {
		assert.Equal(t, -factorCol[i], v)
	}
	for j, v := range mat.Row(nil, 1, lr.UnmixingMatrix) {
		assert.Equal(t, -unmixRow[j], v)
	}
}

func TestNormalizeBSSComponents(t *testing.T) {
	an := fittedAnalyzer(t)
	require.NoError(t, an.BlindSourceSeparation(decompose.DefaultBSSOptions()))
	lr := an.Results()
	want := mat.DenseCopyOf(reconstruction(lr.BSSFactors, lr.BSSLoadings))

	require.NoError(t, an.NormalizeBSSComponents("loadings", nil))
	model := reconstruction(lr.BSSFactors, lr.BSSLoadings)
	assert.True(t, mat.EqualApprox(want, model, 1e-8))

	err := an.NormalizeBSSComponents("mixture", nil)
	assert.ErrorIs(t, err, decompose.ErrBadNormalizeTarget)
}

func TestGetBSSModel(t *testing.T) {
	an := fittedAnalyzer(t)

	_, err := an.GetBSSModel(nil)
	assert.ErrorIs(t, err, decompose.ErrNoBSS)

	require.NoError(t, an.BlindSourceSeparation(decompose.DefaultBSSOptions()))
	model, err := an.GetBSSModel(nil)
	require.NoError(t, err)
	view, _, err := model.Unfold()
	require.NoError(t, err)

	want := mat.NewDense(10, 8, countsData())
	assert.True(t, mat.EqualApprox(want, view, 1e-7),
		"three separated components rebuild the rank-3 data")
}

// lopsidedICA misreports its unmixing: one extra row beyond the
// component count.
type lopsidedICA struct {
	raw *mat.Dense
}

func (l *lopsidedICA) Fit(data *mat.Dense) error {
	_, c := data.Dims()
	l.raw = mat.NewDense(c+1, c, nil)
	for i := 0; i < c; i++ {
		l.raw.Set(i, i, 1)
	}
	return nil
}

func (l *lopsidedICA) UnmixingMatrix() *mat.Dense { return l.raw }

func TestBSS_MisshapenUnmixing(t *testing.T) {
	an := fittedAnalyzer(t)
	opts := decompose.DefaultBSSOptions()
	opts.NumberOfComponents = 2
	opts.Estimator = &lopsidedICA{}

	err := an.BlindSourceSeparation(opts)
	assert.ErrorIs(t, err, bss.ErrBadUnmixing)
	assert.ErrorIs(t, err, mva.ErrConfiguration)
	assert.Empty(t, an.Results().BSSAlgorithm, "failed separation leaves no BSS block")
}
