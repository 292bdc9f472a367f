package results

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LearningResults is the versioned container for decomposition and BSS
// outputs. Matrix fields are nil until the corresponding stage has run;
// integer fields use zero as "unset".
//
// Shape conventions: Factors is signal × k (or reduced-signal × k under
// a signal mask before re-expansion), Loadings is navigation × k,
// UnmixingMatrix is k × k. Masks are stored in the caller's exclusion
// convention (true = excluded), never the internal include selectors.
type LearningResults struct {
	// Decomposition block.
	Factors                     *mat.Dense
	Loadings                    *mat.Dense
	ExplainedVariance           []float64
	ExplainedVarianceRatio      []float64
	NumberSignificantComponents int
	DecompositionAlgorithm      string
	PoissonianNoiseNormalized   bool
	OutputDimension             int
	Mean                        []float64
	Centre                      string

	// BSS block. Cleared as a unit whenever a new decomposition runs.
	BSSAlgorithm   string
	UnmixingMatrix *mat.Dense
	BSSFactors     *mat.Dense
	BSSLoadings    *mat.Dense
	OnLoadings     bool

	// Shape bookkeeping of the analysed dataset.
	Unfolded      bool
	OriginalShape []int

	// Masks in the original exclusion convention.
	NavigationMask []bool
	SignalMask     []bool

	// Warnings accumulated by non-fatal engine branches (reprojection
	// downgrade, default variance model, skipped rescaling).
	Warnings []string
}

// Crop truncates Loadings, Factors and ExplainedVariance to the first
// n components. The explained-variance ratio is left untouched: it was
// normalized against the full pre-crop sum and truncating it would lose
// that information.
func (lr *LearningResults) Crop(n int) error {
	if lr.Factors == nil || lr.Loadings == nil {
		return ErrNoDecomposition
	}
	_, k := lr.Factors.Dims()
	if n < 1 || n > k {
		return fmt.Errorf("%w: n=%d, have %d components", ErrBadCrop, n, k)
	}
	lr.Factors = copyCols(lr.Factors, n)
	lr.Loadings = copyCols(lr.Loadings, n)
	if lr.ExplainedVariance != nil {
		lr.ExplainedVariance = append([]float64(nil), lr.ExplainedVariance[:n]...)
	}
	return nil
}

// Transpose swaps the factor/loading pairs, both for the decomposition
// and the BSS block. Applying it twice is the identity.
func (lr *LearningResults) Transpose() {
	lr.Factors, lr.Loadings = lr.Loadings, lr.Factors
	lr.BSSFactors, lr.BSSLoadings = lr.BSSLoadings, lr.BSSFactors
}

// ClearBSS nulls the whole BSS block. Called on every re-fit so a stale
// unmixing never survives a new decomposition.
func (lr *LearningResults) ClearBSS() {
	lr.BSSAlgorithm = ""
	lr.UnmixingMatrix = nil
	lr.BSSFactors = nil
	lr.BSSLoadings = nil
	lr.OnLoadings = false
}

// Components returns the number of stored components, zero before any
// decomposition.
func (lr *LearningResults) Components() int {
	if lr.Factors == nil {
		return 0
	}
	_, k := lr.Factors.Dims()
	return k
}

// Summary renders the stored parameters as a human-readable block.
func (lr *LearningResults) Summary() string {
	var b strings.Builder
	b.WriteString("Decomposition parameters\n")
	b.WriteString("------------------------\n")
	fmt.Fprintf(&b, "normalize_poissonian_noise=%v\n", lr.PoissonianNoiseNormalized)
	fmt.Fprintf(&b, "algorithm=%s\n", orUnset(lr.DecompositionAlgorithm))
	fmt.Fprintf(&b, "output_dimension=%d\n", lr.OutputDimension)
	fmt.Fprintf(&b, "centre=%s", orUnset(lr.Centre))
	if lr.BSSAlgorithm != "" {
		n := 0
		if lr.UnmixingMatrix != nil {
			n, _ = lr.UnmixingMatrix.Dims()
		}
		b.WriteString("\n\nDemixing parameters\n")
		b.WriteString("-------------------\n")
		fmt.Fprintf(&b, "algorithm=%s\n", lr.BSSAlgorithm)
		fmt.Fprintf(&b, "n_components=%d", n)
	}
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// copyCols returns a fresh matrix holding the first n columns of m, so
// cropping actually releases the original backing array.
func copyCols(m *mat.Dense, n int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, n, nil)
	out.Copy(m.Slice(0, r, 0, n))
	return out
}
