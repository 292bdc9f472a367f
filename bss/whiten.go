package bss

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// whitenEpsilon regularizes the inverse square root so near-zero
// eigenvalues of a rank-deficient covariance do not blow up.
const whitenEpsilon = 1e-10

// Whiten centres data (samples × features) when centre is set and
// decorrelates it so the whitened covariance is close to identity. It
// returns the whitened data and the whitening matrix W, the inverse
// square root of the feature scatter matrix; composing a raw unmixing
// matrix with W maps it back to original coordinates.
//
// The input is not mutated. Eigenvectors are ordered by descending
// eigenvalue with the dominant entry of each vector made positive, so
// the factorization is deterministic.
func Whiten(data *mat.Dense, centre bool, method WhitenMethod) (*mat.Dense, *mat.Dense, error) {
	switch method {
	case WhitenPCA, WhitenZCA:
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrBadWhitenMethod, method)
	}
	n, m := data.Dims()
	if n == 0 || m == 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrEmptyData, n, m)
	}

	x := mat.NewDense(n, m, nil)
	x.Copy(data)
	if centre {
		for j := 0; j < m; j++ {
			mean := 0.0
			for i := 0; i < n; i++ {
				mean += x.At(i, j)
			}
			mean /= float64(n)
			for i := 0; i < n; i++ {
				x.Set(i, j, x.At(i, j)-mean)
			}
		}
	}

	// Feature scatter matrix xᵀx, symmetrized against rounding noise.
	var scatter mat.Dense
	scatter.Mul(x.T(), x)
	sym := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			sym.SetSym(i, j, 0.5*(scatter.At(i, j)+scatter.At(j, i)))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, nil, ErrEigenFailed
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// EigenSym yields ascending eigenvalues; flip to descending and fix
	// each eigenvector's sign by its dominant entry.
	order := make([]int, m)
	for i := range order {
		order[i] = m - 1 - i
	}
	v := mat.NewDense(m, m, nil)
	lambda := make([]float64, m)
	for c, src := range order {
		lambda[c] = vals[src]
		dominant, magnitude := 0, 0.0
		for r := 0; r < m; r++ {
			if a := math.Abs(vecs.At(r, src)); a > magnitude {
				dominant, magnitude = r, a
			}
		}
		sign := 1.0
		if vecs.At(dominant, src) < 0 {
			sign = -1.0
		}
		for r := 0; r < m; r++ {
			v.Set(r, c, sign*vecs.At(r, src))
		}
	}

	invSqrt := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		invSqrt.Set(i, i, 1.0/math.Sqrt(lambda[i]+whitenEpsilon))
	}

	w := mat.NewDense(m, m, nil)
	switch method {
	case WhitenPCA:
		w.Mul(invSqrt, v.T())
	case WhitenZCA:
		var tmp mat.Dense
		tmp.Mul(v, invSqrt)
		w.Mul(&tmp, v.T())
	}

	var y mat.Dense
	y.Mul(x, w.T())
	return &y, w, nil
}
