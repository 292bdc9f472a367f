package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva"
	"github.com/veletar/mva/backend"
)

// testMatrix returns a deterministic 6×4 matrix with two dominant
// directions.
func testMatrix() *mat.Dense {
	return mat.NewDense(6, 4, []float64{
		4.0, 2.0, 0.6, 0.1,
		4.2, 2.1, 0.59, 0.12,
		3.9, 2.0, 0.58, 0.09,
		4.3, 2.1, 0.62, 0.11,
		1.0, 5.0, 1.1, 0.2,
		1.1, 5.1, 1.05, 0.21,
	})
}

// TestSVD_Reconstruction verifies the factorization identity
// data ≈ loadings · factorsᵀ for the full decomposition.
func TestSVD_Reconstruction(t *testing.T) {
	data := testMatrix()
	res, err := backend.SVD(data, backend.DefaultSVDOptions())
	require.NoError(t, err)

	var rec mat.Dense
	rec.Mul(res.Loadings, res.Factors.T())
	assert.True(t, mat.EqualApprox(data, &rec, 1e-10), "loadings·factorsᵀ must reconstruct the data")
}

// TestSVD_DoesNotMutateInput verifies the no-mutation contract even
// with centring and auto-transpose enabled.
func TestSVD_DoesNotMutateInput(t *testing.T) {
	data := testMatrix()
	orig := mat.DenseCopyOf(data)

	opts := backend.DefaultSVDOptions()
	opts.Centre = backend.CentreSamples
	_, err := backend.SVD(data, opts)
	require.NoError(t, err)
	assert.True(t, mat.Equal(orig, data), "input must not be mutated")
}

// TestSVD_Deterministic verifies bit-for-bit reproducibility across
// runs, including the sign convention.
func TestSVD_Deterministic(t *testing.T) {
	data := testMatrix()
	a, err := backend.SVD(data, backend.DefaultSVDOptions())
	require.NoError(t, err)
	b, err := backend.SVD(data, backend.DefaultSVDOptions())
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.Factors, b.Factors))
	assert.True(t, mat.Equal(a.Loadings, b.Loadings))
	assert.Equal(t, a.ExplainedVariance, b.ExplainedVariance)
}

// TestSVD_SignConvention verifies that every factor column has its
// largest-magnitude entry positive.
func TestSVD_SignConvention(t *testing.T) {
	res, err := backend.SVD(testMatrix(), backend.DefaultSVDOptions())
	require.NoError(t, err)

	rows, cols := res.Factors.Dims()
	for j := 0; j < cols; j++ {
		peak := 0.0
		for i := 0; i < rows; i++ {
			if v := res.Factors.At(i, j); v*v > peak*peak {
				peak = v
			}
		}
		assert.GreaterOrEqual(t, peak, 0.0, "component %d dominant entry must be positive", j)
	}
}

// TestSVD_Truncation verifies OutputDimension and the variance order.
func TestSVD_Truncation(t *testing.T) {
	opts := backend.DefaultSVDOptions()
	opts.OutputDimension = 2
	res, err := backend.SVD(testMatrix(), opts)
	require.NoError(t, err)

	_, k := res.Factors.Dims()
	assert.Equal(t, 2, k)
	assert.Len(t, res.ExplainedVariance, 2)
	assert.GreaterOrEqual(t, res.ExplainedVariance[0], res.ExplainedVariance[1],
		"variance must come out in descending order")
}

// TestSVD_AutoTranspose verifies that the wide-matrix path agrees with
// the direct factorization.
func TestSVD_AutoTranspose(t *testing.T) {
	wide := mat.NewDense(3, 8, []float64{
		1, 2, 3, 4, 5, 6, 7, 8,
		2, 4, 6, 8, 10, 12, 14, 17,
		1, 3, 2, 4, 3, 5, 4, 6,
	})

	auto := backend.DefaultSVDOptions()
	direct := backend.DefaultSVDOptions()
	direct.AutoTranspose = false

	a, err := backend.SVD(wide, auto)
	require.NoError(t, err)
	d, err := backend.SVD(wide, direct)
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(a.Factors, d.Factors, 1e-10))
	assert.True(t, mat.EqualApprox(a.Loadings, d.Loadings, 1e-10))
}

// TestSVD_CentreSamples verifies the mean vector and that centring
// changes the fitted variance as expected.
func TestSVD_CentreSamples(t *testing.T) {
	opts := backend.DefaultSVDOptions()
	opts.Centre = backend.CentreSamples
	res, err := backend.SVD(testMatrix(), opts)
	require.NoError(t, err)

	require.Len(t, res.Mean, 4, "samples-centring yields a signal-length mean")
	// Reconstruction plus mean restores the data.
	var rec mat.Dense
	rec.Mul(res.Loadings, res.Factors.T())
	n, m := rec.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			rec.Set(i, j, rec.At(i, j)+res.Mean[j])
		}
	}
	assert.True(t, mat.EqualApprox(testMatrix(), &rec, 1e-10))
}

// TestSVD_OptionValidation verifies the configuration sentinels.
func TestSVD_OptionValidation(t *testing.T) {
	opts := backend.DefaultSVDOptions()
	opts.Centre = "sideways"
	_, err := backend.SVD(testMatrix(), opts)
	assert.ErrorIs(t, err, backend.ErrBadCentre)
	assert.ErrorIs(t, err, mva.ErrConfiguration)

	opts = backend.DefaultSVDOptions()
	opts.Solver = "arpack"
	_, err = backend.SVD(testMatrix(), opts)
	assert.ErrorIs(t, err, backend.ErrBadSolver)
}
