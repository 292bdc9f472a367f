package decompose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva"
)

func TestApplyPoissonNoise_Scaling(t *testing.T) {
	dc := mat.NewDense(2, 2, []float64{
		1, 4,
		9, 16,
	})
	st, err := applyPoissonNoise(dc, nil, nil)
	require.NoError(t, err)

	// Row sums 5 and 25, column sums 10 and 20.
	assert.InDelta(t, math.Sqrt(5), st.rootAG[0], 1e-12)
	assert.InDelta(t, math.Sqrt(25), st.rootAG[1], 1e-12)
	assert.InDelta(t, math.Sqrt(10), st.rootBH[0], 1e-12)
	assert.InDelta(t, math.Sqrt(20), st.rootBH[1], 1e-12)

	assert.InDelta(t, 1/(math.Sqrt(5)*math.Sqrt(10)), dc.At(0, 0), 1e-12)
	assert.InDelta(t, 16/(math.Sqrt(25)*math.Sqrt(20)), dc.At(1, 1), 1e-12)
}

func TestApplyPoissonNoise_MaskedBlock(t *testing.T) {
	dc := mat.NewDense(3, 3, []float64{
		1, 100, 2,
		3, 100, 4,
		-9, 100, -9,
	})
	// Exclude the negative row and the large column: the strict
	// positivity check must only see the included block.
	st, err := applyPoissonNoise(dc, []int{0, 1}, []int{0, 2})
	require.NoError(t, err)
	assert.Len(t, st.rootAG, 2)
	assert.Len(t, st.rootBH, 2)

	// Excluded entries are untouched.
	assert.Equal(t, 100.0, dc.At(0, 1))
	assert.Equal(t, -9.0, dc.At(2, 0))
}

func TestApplyPoissonNoise_RejectsNonPositive(t *testing.T) {
	dc := mat.NewDense(2, 2, []float64{1, 2, 0, 4})
	_, err := applyPoissonNoise(dc, nil, nil)
	assert.ErrorIs(t, err, ErrNonPositiveValues)
	assert.ErrorIs(t, err, mva.ErrDomain)
}

func TestReverseOnResults_RestoresModel(t *testing.T) {
	// For any factorization of the scaled data the rescaled pair must
	// reproduce the model of the unscaled data: scaling is applied per
	// row of each array, exactly inverting the outer-product division.
	dc := mat.NewDense(2, 3, []float64{
		4, 1, 1,
		1, 9, 4,
	})
	original := mat.DenseCopyOf(dc)
	st, err := applyPoissonNoise(dc, nil, nil)
	require.NoError(t, err)

	// Trivial exact factorization of the scaled matrix: loadings = dc,
	// factors = identity columns.
	loadings := mat.DenseCopyOf(dc)
	factors := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})

	warnings := st.reverseOnResults(factors, loadings)
	assert.Empty(t, warnings)

	var model mat.Dense
	model.Mul(loadings, factors.T())
	assert.True(t, mat.EqualApprox(original, &model, 1e-12))
}

func TestReverseOnResults_DimensionGuard(t *testing.T) {
	st := &noiseState{rootAG: []float64{1, 2}, rootBH: []float64{1, 2, 3}}
	// Factor rows disagree with rootBH, loading rows with rootAG.
	factors := mat.NewDense(2, 1, []float64{1, 1})
	loadings := mat.NewDense(4, 1, []float64{1, 1, 1, 1})

	before := mat.DenseCopyOf(factors)
	warnings := st.reverseOnResults(factors, loadings)
	assert.Len(t, warnings, 2)
	assert.True(t, mat.Equal(before, factors), "mismatched arrays are left untouched")
}
