package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// FromCSV reads a numeric csv document into a 2-D dataset: one record
// per navigation entry, one field per signal channel. All records must
// have the same length and every cell must parse as a float64.
func FromCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var (
		buf  []float64
		rows int
		cols int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: reading csv: %w", err)
		}
		if cols == 0 {
			cols = len(rec)
		} else if len(rec) != cols {
			return nil, ErrRagged
		}
		for _, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrNotNumeric, field)
			}
			buf = append(buf, v)
		}
		rows++
	}
	if rows == 0 || cols == 0 {
		return nil, ErrEmpty
	}
	return New([]int{rows, cols}, 1, buf)
}
