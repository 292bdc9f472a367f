package bss

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// SortByWeight reorders the rows of the k×k unmixing matrix w in place
// by descending explained-variance-weighted magnitude, the score of row
// i being Σⱼ ev[j]·|w[i,j]|. Ties keep the original relative order.
// Only the first k entries of ev participate; when ev is shorter than
// k, or nil, w is left untouched. The applied row order is returned.
func SortByWeight(w *mat.Dense, ev []float64) []int {
	k, _ := w.Dims()
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	if len(ev) < k {
		return order
	}

	scores := make([]float64, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			scores[i] += ev[j] * math.Abs(w.At(i, j))
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	sorted := mat.NewDense(k, k, nil)
	for dst, src := range order {
		for j := 0; j < k; j++ {
			sorted.Set(dst, j, w.At(src, j))
		}
	}
	w.Copy(sorted)
	return order
}

// ShouldReverse implements the per-component sign heuristic: a column
// whose most negative excursion dominates its most positive one gets
// negated. NaN entries from masked regions are ignored; an all-NaN
// column is left alone.
func ShouldReverse(col []float64) bool {
	minimum, maximum := math.Inf(1), math.Inf(-1)
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if v < minimum {
			minimum = v
		}
		if v > maximum {
			maximum = v
		}
	}
	return minimum < 0 && -minimum > maximum
}
