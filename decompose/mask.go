package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// includeIndices inverts an exclusion mask into the list of kept
// indices. A nil mask keeps the whole axis and returns nil, the
// "select everything" selector.
func includeIndices(mask []bool, extent int) ([]int, error) {
	if mask == nil {
		return nil, nil
	}
	if len(mask) != extent {
		return nil, fmt.Errorf("%w: mask %d, axis %d", ErrMaskShape, len(mask), extent)
	}
	idx := make([]int, 0, extent)
	for i, excluded := range mask {
		if !excluded {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, ErrAllMasked
	}
	return idx, nil
}

// subMatrix copies the selected rows and columns of m. A nil selector
// keeps the full axis.
func subMatrix(m *mat.Dense, rows, cols []int) *mat.Dense {
	r, c := m.Dims()
	if rows == nil {
		rows = allIndices(r)
	}
	if cols == nil {
		cols = allIndices(c)
	}
	out := mat.NewDense(len(rows), len(cols), nil)
	for i, src := range rows {
		for j, sc := range cols {
			out.Set(i, j, m.At(src, sc))
		}
	}
	return out
}

// takeCols copies the selected columns of m at full row extent.
func takeCols(m *mat.Dense, cols []int) *mat.Dense {
	return subMatrix(m, nil, cols)
}

// takeRows copies the selected rows of m at full column extent.
func takeRows(m *mat.Dense, rows []int) *mat.Dense {
	return subMatrix(m, rows, nil)
}

// expandRows scatters the rows of reduced back to the full extent,
// filling every non-included row with NaN.
func expandRows(reduced *mat.Dense, include []int, extent int) *mat.Dense {
	_, k := reduced.Dims()
	out := mat.NewDense(extent, k, nil)
	for i := 0; i < extent; i++ {
		for j := 0; j < k; j++ {
			out.Set(i, j, math.NaN())
		}
	}
	for i, dst := range include {
		for j := 0; j < k; j++ {
			out.Set(dst, j, reduced.At(i, j))
		}
	}
	return out
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// pinvTolerance scales the singular-value cutoff of the pseudoinverse.
const pinvTolerance = 1e-15

// pseudoInverse computes the Moore-Penrose inverse of m through its
// thin SVD, zeroing reciprocal singular values below the relative
// cutoff so rank deficiency does not amplify noise.
func pseudoInverse(m *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return nil, ErrSingularUnmixing
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	cutoff := 0.0
	for _, sv := range s {
		if sv > cutoff {
			cutoff = sv
		}
	}
	r, c := m.Dims()
	cutoff *= pinvTolerance * float64(max(r, c))

	inv := mat.NewDense(len(s), len(s), nil)
	for i, sv := range s {
		if sv > cutoff {
			inv.Set(i, i, 1.0/sv)
		}
	}
	var tmp, out mat.Dense
	tmp.Mul(&v, inv)
	out.Mul(&tmp, u.T())
	return &out, nil
}
