// Package dataset holds feature tables and the random partitioning used to
// carve them into train, validation and test sets.
package dataset

import "fmt"

// Frame is a row-major feature table with named columns.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// NewFrame checks that every row has one value per column.
func NewFrame(columns []string, rows [][]float64) (Frame, error) {
	for i, r := range rows {
		if len(r) != len(columns) {
			return Frame{}, fmt.Errorf("row %d has %d values, want %d", i, len(r), len(columns))
		}
	}
	return Frame{Columns: columns, Rows: rows}, nil
}

func (f Frame) Len() int { return len(f.Rows) }

// Take returns the rows at idx, in idx order. Row slices are shared.
func (f Frame) Take(idx []int) Frame {
	rows := make([][]float64, len(idx))
	for i, j := range idx {
		rows[i] = f.Rows[j]
	}
	return Frame{Columns: f.Columns, Rows: rows}
}

// Column returns a copy of the named column.
func (f Frame) Column(name string) ([]float64, error) {
	for j, c := range f.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(f.Rows))
		for i, r := range f.Rows {
			out[i] = r[j]
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown column %q", name)
}

func take(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
