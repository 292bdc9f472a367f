package bss

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Orthomax computes an orthogonal rotation of the samples × k matrix a
// that maximizes the orthomax criterion with the configured gamma
// (varimax at 1, quartimax at 0). It returns the rotated matrix and
// the k×k unmixing matrix, the transpose of the rotation.
//
// The iteration is the classic singular-value update: rotate, build the
// criterion gradient, and replace the rotation with the orthogonal
// polar factor of the gradient until the singular-value sum stalls.
// Starting from the identity makes the result deterministic.
func Orthomax(a *mat.Dense, opts OrthomaxOptions) (*mat.Dense, *mat.Dense, error) {
	if opts.Gamma < 0 || opts.Gamma > 1 || math.IsNaN(opts.Gamma) {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadGamma, opts.Gamma)
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultOrthomaxOptions().Tol
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultOrthomaxOptions().MaxIter
	}
	p, k := a.Dims()
	if p == 0 || k == 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrEmptyData, p, k)
	}

	rot := eye(k)
	if k > 1 {
		sum := 0.0
		for iter := 0; iter < opts.MaxIter; iter++ {
			prev := sum

			var basis mat.Dense
			basis.Mul(a, rot)

			// Gradient of the criterion: aᵀ(b³ − (γ/p)·b·diag(Σb²)).
			grad := mat.NewDense(p, k, nil)
			colSq := make([]float64, k)
			for j := 0; j < k; j++ {
				for i := 0; i < p; i++ {
					colSq[j] += basis.At(i, j) * basis.At(i, j)
				}
			}
			for i := 0; i < p; i++ {
				for j := 0; j < k; j++ {
					b := basis.At(i, j)
					grad.Set(i, j, b*b*b-(opts.Gamma/float64(p))*b*colSq[j])
				}
			}
			var update mat.Dense
			update.Mul(a.T(), grad)

			var svd mat.SVD
			if !svd.Factorize(&update, mat.SVDThin) {
				return nil, nil, ErrRotationFailed
			}
			var u, v mat.Dense
			svd.UTo(&u)
			svd.VTo(&v)
			rot.Mul(&u, v.T())

			sum = 0.0
			for _, s := range svd.Values(nil) {
				sum += s
			}
			if math.Abs(sum-prev) < opts.Tol*sum {
				break
			}
		}
	}

	var rotated mat.Dense
	rotated.Mul(a, rot)
	unmixing := mat.NewDense(k, k, nil)
	unmixing.Copy(rot.T())
	return &rotated, unmixing, nil
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
