package results_test

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/veletar/mva"
	"github.com/veletar/mva/results"
)

func fixture() *results.LearningResults {
	return &results.LearningResults{
		Factors:                     mat.NewDense(4, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}),
		Loadings:                    mat.NewDense(5, 3, make([]float64, 15)),
		ExplainedVariance:           []float64{9, 4, 1},
		ExplainedVarianceRatio:      []float64{9.0 / 14, 4.0 / 14, 1.0 / 14},
		NumberSignificantComponents: 2,
		DecompositionAlgorithm:      "svd",
		OutputDimension:             3,
		Unfolded:                    true,
		OriginalShape:               []int{5, 4},
	}
}

// TestCrop verifies the truncation algebra: k columns everywhere, raw
// variance truncated, ratio untouched.
func TestCrop(t *testing.T) {
	lr := fixture()
	require.NoError(t, lr.Crop(2))

	_, fc := lr.Factors.Dims()
	_, lc := lr.Loadings.Dims()
	assert.Equal(t, 2, fc)
	assert.Equal(t, 2, lc)
	assert.Len(t, lr.ExplainedVariance, 2)
	assert.Len(t, lr.ExplainedVarianceRatio, 3, "ratio keeps its pre-crop length")
	assert.Equal(t, 2, lr.Components())
}

// TestCrop_Errors verifies range checks and the no-fit guard.
func TestCrop_Errors(t *testing.T) {
	lr := fixture()
	assert.ErrorIs(t, lr.Crop(0), results.ErrBadCrop)
	assert.ErrorIs(t, lr.Crop(4), results.ErrBadCrop)
	assert.ErrorIs(t, lr.Crop(4), mva.ErrDimension)

	empty := &results.LearningResults{}
	assert.ErrorIs(t, empty.Crop(1), results.ErrNoDecomposition)
}

// TestTranspose_Involution verifies that transposing twice is the
// identity on all four arrays.
func TestTranspose_Involution(t *testing.T) {
	lr := fixture()
	lr.BSSFactors = mat.NewDense(4, 2, make([]float64, 8))
	lr.BSSLoadings = mat.NewDense(5, 2, make([]float64, 10))

	f, l := lr.Factors, lr.Loadings
	bf, bl := lr.BSSFactors, lr.BSSLoadings

	lr.Transpose()
	assert.Same(t, f, lr.Loadings, "factors and loadings swap pairwise")
	assert.Same(t, l, lr.Factors)
	assert.Same(t, bf, lr.BSSLoadings)
	assert.Same(t, bl, lr.BSSFactors)

	lr.Transpose()
	assert.Same(t, f, lr.Factors, "double transpose is the identity")
	assert.Same(t, l, lr.Loadings)
	assert.Same(t, bf, lr.BSSFactors)
	assert.Same(t, bl, lr.BSSLoadings)
}

// TestClearBSS verifies that the BSS block is cleared as a unit.
func TestClearBSS(t *testing.T) {
	lr := fixture()
	lr.BSSAlgorithm = "orthomax"
	lr.UnmixingMatrix = mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	lr.BSSFactors = mat.NewDense(4, 2, make([]float64, 8))
	lr.BSSLoadings = mat.NewDense(5, 2, make([]float64, 10))
	lr.OnLoadings = true

	lr.ClearBSS()
	assert.Empty(t, lr.BSSAlgorithm)
	assert.Nil(t, lr.UnmixingMatrix)
	assert.Nil(t, lr.BSSFactors)
	assert.Nil(t, lr.BSSLoadings)
	assert.False(t, lr.OnLoadings)
	assert.NotNil(t, lr.Factors, "decomposition block survives")
}

// TestSaveLoad_RoundTrip verifies that a full archive, including NaN
// entries from mask re-expansion, survives persistence bit-for-bit.
func TestSaveLoad_RoundTrip(t *testing.T) {
	lr := fixture()
	lr.Factors.Set(0, 0, math.NaN())
	lr.NavigationMask = []bool{false, true, false, false, true}
	lr.Warnings = []string{"signal reprojection not supported for estimator backends"}

	path := filepath.Join(t.TempDir(), "fit.mvz")
	require.NoError(t, lr.Save(path))

	got, err := results.Load(path)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(got.Factors.At(0, 0)), "NaN survives the archive")
	assert.Equal(t, lr.ExplainedVariance, got.ExplainedVariance)
	assert.Equal(t, lr.ExplainedVarianceRatio, got.ExplainedVarianceRatio)
	assert.Equal(t, lr.NumberSignificantComponents, got.NumberSignificantComponents)
	assert.Equal(t, lr.DecompositionAlgorithm, got.DecompositionAlgorithm)
	assert.Equal(t, lr.OutputDimension, got.OutputDimension)
	assert.Equal(t, lr.OriginalShape, got.OriginalShape)
	assert.Equal(t, lr.NavigationMask, got.NavigationMask)
	assert.Equal(t, lr.Warnings, got.Warnings)
	assert.True(t, mat.Equal(lr.Loadings, got.Loadings))
}

// TestLoad_LegacyMigration verifies the fixed rename table, dropped
// obsolete keys and singleton-array scalar unwrapping.
func TestLoad_LegacyMigration(t *testing.T) {
	legacy := map[string]any{
		"algorithm":        "svd",
		"V":                []float64{4, 1},
		"w":                map[string]any{"rows": 2, "cols": 2, "data": []float64{1, 0, 0, 1}},
		"scores":           map[string]any{"rows": 3, "cols": 2, "data": []float64{1, 2, 3, 4, 5, 6}},
		"ica_algorithm":    "orthomax",
		"ica_factors":      map[string]any{"rows": 2, "cols": 2, "data": []float64{1, 2, 3, 4}},
		"output_dimension": []int{2},
		"variance2one":     true,
		"centered":         false,
		"bss_node":         "FastICA()",
	}
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(zw).Encode(legacy))
	require.NoError(t, zw.Close())

	got, err := results.LoadFrom(&buf)
	require.NoError(t, err)

	assert.Equal(t, "svd", got.DecompositionAlgorithm, "algorithm migrates")
	assert.Equal(t, []float64{4, 1}, got.ExplainedVariance, "V migrates")
	assert.NotNil(t, got.UnmixingMatrix, "w migrates")
	assert.NotNil(t, got.Loadings, "scores migrates")
	assert.Equal(t, "orthomax", got.BSSAlgorithm, "ica_algorithm migrates")
	assert.NotNil(t, got.BSSFactors, "ica_factors migrates")
	assert.Equal(t, 2, got.OutputDimension, "singleton array unwraps to a scalar")
	assert.Nil(t, got.Factors, "missing keys stay null")
}

// TestLoad_MalformedMatrix verifies archive validation.
func TestLoad_MalformedMatrix(t *testing.T) {
	doc := map[string]any{
		"factors": map[string]any{"rows": 2, "cols": 2, "data": []float64{1, 2, 3}},
	}
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(zw).Encode(doc))
	require.NoError(t, zw.Close())

	_, err = results.LoadFrom(&buf)
	assert.ErrorIs(t, err, results.ErrBadArchive)
	assert.ErrorIs(t, err, mva.ErrDomain)
}

// TestSummary covers both parameter blocks.
func TestSummary(t *testing.T) {
	lr := fixture()
	s := lr.Summary()
	assert.Contains(t, s, "algorithm=svd")
	assert.Contains(t, s, "output_dimension=3")
	assert.NotContains(t, s, "Demixing", "no BSS block before separation")

	lr.BSSAlgorithm = "orthomax"
	lr.UnmixingMatrix = mat.NewDense(3, 3, make([]float64, 9))
	s = lr.Summary()
	assert.Contains(t, s, "Demixing parameters")
	assert.Contains(t, s, "n_components=3")
}
