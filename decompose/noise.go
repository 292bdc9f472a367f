package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// noiseState carries the per-axis scaling vectors between the apply and
// result-reversal halves of Poisson normalization. Lengths match the
// included sub-block, not the full axes.
type noiseState struct {
	rootAG []float64
	rootBH []float64
}

// applyPoissonNoise rescales the included sub-block of dc in place for
// Poisson counting statistics: each element is divided by the square
// root of its row sum times the square root of its column sum, so the
// variance of the scaled data is approximately uniform. Indeterminate
// 0/0 results are mapped to zero.
//
// Every value of the included sub-block must be strictly positive.
func applyPoissonNoise(dc *mat.Dense, navInc, sigInc []int) (*noiseState, error) {
	r, c := dc.Dims()
	if navInc == nil {
		navInc = allIndices(r)
	}
	if sigInc == nil {
		sigInc = allIndices(c)
	}

	for _, i := range navInc {
		for _, j := range sigInc {
			if dc.At(i, j) <= 0 {
				return nil, fmt.Errorf("%w: data[%d,%d]=%v", ErrNonPositiveValues, i, j, dc.At(i, j))
			}
		}
	}

	st := &noiseState{
		rootAG: make([]float64, len(navInc)),
		rootBH: make([]float64, len(sigInc)),
	}
	for a, i := range navInc {
		sum := 0.0
		for _, j := range sigInc {
			sum += dc.At(i, j)
		}
		st.rootAG[a] = math.Sqrt(sum)
	}
	for b, j := range sigInc {
		sum := 0.0
		for _, i := range navInc {
			sum += dc.At(i, j)
		}
		st.rootBH[b] = math.Sqrt(sum)
	}

	for a, i := range navInc {
		for b, j := range sigInc {
			scaled := dc.At(i, j) / (st.rootAG[a] * st.rootBH[b])
			if math.IsNaN(scaled) {
				scaled = 0
			}
			dc.Set(i, j, scaled)
		}
	}
	return st, nil
}

// reverseOnResults undoes the Poisson scaling at the result level:
// factor rows are multiplied back by the per-channel root sums and
// loading rows by the per-observation root sums. Skipped with a
// recorded warning when an axis was filled by reprojection to a
// different extent than the scaling vectors cover.
func (st *noiseState) reverseOnResults(factors, loadings *mat.Dense) (warnings []string) {
	fr, fc := factors.Dims()
	if fr == len(st.rootBH) {
		for i := 0; i < fr; i++ {
			for j := 0; j < fc; j++ {
				factors.Set(i, j, factors.At(i, j)*st.rootBH[i])
			}
		}
	} else {
		warnings = append(warnings, fmt.Sprintf(
			"poissonian noise scaling not reversed on factors: %d rows, %d scaling entries", fr, len(st.rootBH)))
	}

	lr, lc := loadings.Dims()
	if lr == len(st.rootAG) {
		for i := 0; i < lr; i++ {
			for j := 0; j < lc; j++ {
				loadings.Set(i, j, loadings.At(i, j)*st.rootAG[i])
			}
		}
	} else {
		warnings = append(warnings, fmt.Sprintf(
			"poissonian noise scaling not reversed on loadings: %d rows, %d scaling entries", lr, len(st.rootAG)))
	}
	return warnings
}
