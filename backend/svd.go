package backend

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SVD is the built-in exact singular value decomposition, the default
// implementation of the "svd" contract. The input matrix is never
// mutated. Components come out ordered by descending singular value
// and, with FlipSigns, carry a deterministic sign, so repeated runs on
// the same data are bit-for-bit identical.
func SVD(data *mat.Dense, opts SVDOptions) (Result, error) {
	n, m := data.Dims()
	if n == 0 || m == 0 {
		return Result{}, ErrEmptyData
	}
	switch opts.Centre {
	case CentreNone, CentreFeatures, CentreSamples:
	default:
		return Result{}, ErrBadCentre
	}
	switch opts.Solver {
	case "", SolverAuto, SolverFull, SolverRandomized:
		// The exact decomposition serves every policy; the flag exists
		// so externally registered solvers can honour it.
	default:
		return Result{}, ErrBadSolver
	}

	work := mat.DenseCopyOf(data)
	var mean []float64
	switch opts.Centre {
	case CentreSamples:
		mean = make([]float64, m)
		for j := 0; j < m; j++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += work.At(i, j)
			}
			mean[j] = sum / float64(n)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				work.Set(i, j, work.At(i, j)-mean[j])
			}
		}
	case CentreFeatures:
		mean = make([]float64, n)
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < m; j++ {
				sum += work.At(i, j)
			}
			mean[i] = sum / float64(m)
			for j := 0; j < m; j++ {
				work.Set(i, j, work.At(i, j)-mean[i])
			}
		}
	}

	// Factorizing the transpose is cheaper for wide matrices; results
	// are mapped back to the original orientation below.
	transposed := opts.AutoTranspose && m > n
	target := work
	if transposed {
		target = mat.NewDense(m, n, nil)
		target.Copy(work.T())
	}

	var svd mat.SVD
	if ok := svd.Factorize(target, mat.SVDThin); !ok {
		return Result{}, ErrSVDFailed
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// target = u Σ vᵀ. For the transposed fit, data = v Σ uᵀ.
	left, right := &u, &v
	if transposed {
		left, right = &v, &u
	}

	k := len(s)
	if opts.OutputDimension > 0 && opts.OutputDimension < k {
		k = opts.OutputDimension
	}

	loadings := mat.NewDense(n, k, nil)
	factors := mat.NewDense(m, k, nil)
	explained := make([]float64, k)
	for j := 0; j < k; j++ {
		flip := 1.0
		if opts.FlipSigns {
			// Orient each component so its largest-magnitude factor
			// entry is positive.
			peak := 0.0
			for i := 0; i < m; i++ {
				if a := math.Abs(right.At(i, j)); a > math.Abs(peak) {
					peak = right.At(i, j)
				}
			}
			if peak < 0 {
				flip = -1.0
			}
		}
		for i := 0; i < m; i++ {
			factors.Set(i, j, flip*right.At(i, j))
		}
		for i := 0; i < n; i++ {
			loadings.Set(i, j, flip*left.At(i, j)*s[j])
		}
		explained[j] = s[j] * s[j] / float64(n)
	}

	return Result{
		Factors:           factors,
		Loadings:          loadings,
		ExplainedVariance: explained,
		Mean:              mean,
	}, nil
}
