// Package numeric implements the zero-copy bridge (C8) between the
// columnar Frame and the dense matrix views linear-algebra and ML
// transforms consume: one pass over the requested columns builds an owning
// column-major buffer, and column views are taken over it without further
// per-column copies; RowMajor returns a separate row-major copy.
package numeric

import (
	"fmt"
	"math"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// NullPolicy controls how a null cell is represented in the built matrix.
type NullPolicy int

const (
	// NullToNaN converts a null cell to math.NaN(); this is the default.
	NullToNaN NullPolicy = iota
	// NullReject fails BuildMatrix if any requested column has a null cell.
	NullReject
)

// MatrixHandle owns a contiguous buffer of float64 laid out in column-major
// order and exposes read access over it. It is built once per node
// invocation from a fixed set of frame columns; no further per-column
// copies happen while the handle is alive.
type MatrixHandle struct {
	rows int
	cols int
	data []float64 // column-major: data[col*rows+row]
}

// BuildMatrix reads columns (each must be Integer or Decimal) out of frame
// into one column-major buffer.
func BuildMatrix(frame *types.Frame, columns []string, policy NullPolicy) (*MatrixHandle, error) {
	rows := frame.Len()
	cols := len(columns)
	data := make([]float64, rows*cols)

	for c, name := range columns {
		col, err := frame.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Type != types.Integer && col.Type != types.Decimal {
			return nil, fmt.Errorf("numeric: column %q has non-numeric type %s", name, col.Type)
		}
		for r := 0; r < rows; r++ {
			v, err := numericCellAt(col, r, name, policy)
			if err != nil {
				return nil, err
			}
			data[c*rows+r] = v
		}
	}

	return &MatrixHandle{rows: rows, cols: cols, data: data}, nil
}

func numericCellAt(col types.Column, row int, name string, policy NullPolicy) (float64, error) {
	if col.IsNull(row) {
		if policy == NullReject {
			return 0, fmt.Errorf("numeric: null cell in column %q at row %d", name, row)
		}
		return math.NaN(), nil
	}
	switch v := col.Data[row].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("numeric: column %q cell at row %d has unsupported underlying type %T", name, row, v)
	}
}

// Rows returns the number of rows in the matrix.
func (m *MatrixHandle) Rows() int { return m.rows }

// Cols returns the number of columns in the matrix.
func (m *MatrixHandle) Cols() int { return m.cols }

// At returns the value at (row, col).
func (m *MatrixHandle) At(row, col int) float64 {
	return m.data[col*m.rows+row]
}

// ColumnMajor returns the owning buffer in column-major order: data[col*rows+row].
func (m *MatrixHandle) ColumnMajor() []float64 {
	return m.data
}

// RowMajor materializes a row-major copy of the matrix, for downstream
// libraries (e.g. tree boosters) that demand row-contiguous input. This is
// necessarily a copy: row-major and column-major are different physical
// layouts over the same logical data.
func (m *MatrixHandle) RowMajor() [][]float64 {
	out := make([][]float64, m.rows)
	buf := make([]float64, m.rows*m.cols)
	for r := 0; r < m.rows; r++ {
		out[r] = buf[r*m.cols : r*m.cols+m.cols : r*m.cols+m.cols]
		for c := 0; c < m.cols; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Slice returns a new MatrixHandle over the half-open row range [start, end),
// copying only the rows requested.
func (m *MatrixHandle) Slice(start, end int) *MatrixHandle {
	n := end - start
	data := make([]float64, n*m.cols)
	for c := 0; c < m.cols; c++ {
		copy(data[c*n:c*n+n], m.data[c*m.rows+start:c*m.rows+end])
	}
	return &MatrixHandle{rows: n, cols: m.cols, data: data}
}

// ColumnVector is the one-dimensional counterpart of MatrixHandle, used for
// supervised targets and other single-column numeric extractions.
type ColumnVector struct {
	values []float64
}

// BuildColumnVector reads a single numeric column into a ColumnVector.
func BuildColumnVector(frame *types.Frame, column string, policy NullPolicy) (*ColumnVector, error) {
	col, err := frame.Column(column)
	if err != nil {
		return nil, err
	}
	if col.Type != types.Integer && col.Type != types.Decimal {
		return nil, fmt.Errorf("numeric: column %q has non-numeric type %s", column, col.Type)
	}
	values := make([]float64, col.Len())
	for r := range values {
		v, err := numericCellAt(col, r, column, policy)
		if err != nil {
			return nil, err
		}
		values[r] = v
	}
	return &ColumnVector{values: values}, nil
}

// Len returns the vector's length.
func (v *ColumnVector) Len() int { return len(v.values) }

// At returns the value at index i.
func (v *ColumnVector) At(i int) float64 { return v.values[i] }

// Values returns the owning backing slice.
func (v *ColumnVector) Values() []float64 { return v.values }

// Slice returns a new ColumnVector over the half-open range [start, end),
// copying only the values requested.
func (v *ColumnVector) Slice(start, end int) *ColumnVector {
	out := make([]float64, end-start)
	copy(out, v.values[start:end])
	return &ColumnVector{values: out}
}
