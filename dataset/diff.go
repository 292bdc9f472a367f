package dataset

import "gonum.org/v1/gonum/mat"

// Axis selects a dimension of the flattened 2-D view.
type Axis int

const (
	// Rows is the first (navigation) axis of the flattened view.
	Rows Axis = iota

	// Cols is the second (signal) axis of the flattened view.
	Cols
)

// Diff computes order-th finite differences of m along the given axis:
//
//	out[i, :] = m[i+1, :] - m[i, :]   (axis == Rows)
//	out[:, j] = m[:, j+1] - m[:, j]   (axis == Cols)
//
// applied order times, shrinking the differentiated extent by order.
// order == 0 returns a fresh copy. NaN values propagate into every
// difference that touches them, which callers exploit to dilate masks
// through differentiation.
func Diff(m *mat.Dense, axis Axis, order int) (*mat.Dense, error) {
	if order < 0 {
		return nil, ErrBadOrder
	}
	r, c := m.Dims()
	out := mat.DenseCopyOf(m)
	if order == 0 {
		return out, nil
	}
	extent := r
	if axis == Cols {
		extent = c
	}
	if extent <= order {
		return nil, ErrTooShort
	}
	for step := 0; step < order; step++ {
		if axis == Rows {
			r--
			next := mat.NewDense(r, c, nil)
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					next.Set(i, j, out.At(i+1, j)-out.At(i, j))
				}
			}
			out = next
		} else {
			c--
			next := mat.NewDense(r, c, nil)
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					next.Set(i, j, out.At(i, j+1)-out.At(i, j))
				}
			}
			out = next
		}
	}
	return out, nil
}
