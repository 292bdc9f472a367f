package dataset_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// matFromRows builds a Dense from row slices, failing the test on
// ragged input.
func matFromRows(t *testing.T, rows [][]float64) *mat.Dense {
	t.Helper()
	r := len(rows)
	c := len(rows[0])
	m := mat.NewDense(r, c, nil)
	for i, row := range rows {
		if len(row) != c {
			t.Fatalf("ragged test fixture: row %d has %d fields, want %d", i, len(row), c)
		}
		m.SetRow(i, row)
	}
	return m
}
