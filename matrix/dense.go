// SPDX-License-Identifier: MIT

// Dense storage for solver inputs and outputs.
//
// Every Matrix handed to a decomposition engine is flattened once into a
// row-major buffer; every factor an engine hands back is a fresh *Dense.
// At/Set return wrapped sentinels instead of panicking, and writes reject
// NaN/±Inf so a factorization never starts from non-finite data.

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
const DefaultValidateNaNInf = true

// Method tags used in error wrappers.
const (
	ctxAt      = "At"
	ctxSet     = "Set"
	ctxFrom    = "NewDenseFrom"
	ctxData    = "NewDenseData"
	ctxFlatten = "Flatten"
	ctxCol     = "Col"
)

// String() layout.
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf tags err with the Dense method and the offending coordinates.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is the row-major matrix every solver input is copied into and every
// solver output is returned as. Element (i,j) lives at data[i*c+j].
type Dense struct {
	r, c           int       // shape, both > 0
	data           []float64 // len == r*c
	validateNaNInf bool      // reject NaN/±Inf on write
}

var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense allocates an r×c zero matrix.
// Zero or negative shapes are rejected with ErrInvalidDimensions: decomposition
// engines never see an empty system.
// Complexity: Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	// make() zero-fills deterministically.
	buf := make([]float64, rows*cols)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           buf,
		validateNaNInf: DefaultValidateNaNInf,
	}, nil
}

// NewDenseData creates an r×c matrix holding a copy of data (row-major).
// Implementation:
//   - Stage 1: validate shape and len(data) == rows*cols.
//   - Stage 2: copy, rejecting NaN/±Inf under the default numeric policy.
//
// Errors:
//   - ErrInvalidDimensions, ErrDimensionMismatch (length), ErrNaNInf.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - The caller keeps ownership of data; later writes to it do not leak in.
func NewDenseData(rows, cols int, data []float64) (*Dense, error) {
	d, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s: len %d want %d: %w", ctxData, len(data), rows*cols, ErrDimensionMismatch)
	}
	for idx, v := range data {
		if d.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return nil, denseErrorf(ctxData, idx/cols, idx%cols, ErrNaNInf)
		}
		d.data[idx] = v
	}

	return d, nil
}

// NewDenseFrom builds a Dense from a slice of equally long rows.
// Errors: ErrInvalidDimensions (no rows / empty rows), ErrRagged, ErrNaNInf.
// Complexity: O(r*c).
func NewDenseFrom(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", ctxFrom, ErrInvalidDimensions)
	}
	r, c := len(rows), len(rows[0])
	d, err := NewDense(r, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctxFrom, err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d: %w", ctxFrom, i, len(rows[i]), c, ErrRagged)
		}
		for j = 0; j < c; j++ {
			if err = d.Set(i, j, rows[i][j]); err != nil {
				return nil, fmt.Errorf("%s: %w", ctxFrom, err)
			}
		}
	}

	return d, nil
}

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
//
// AI-Hints: Solving A·X = I yields the inverse (or pseudo-inverse).
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// Rows returns the row count.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count.
func (m *Dense) Cols() int { return m.c }

// Shape returns (Rows(), Cols()).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf maps (row, col) to a buffer offset.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At reads (row, col); out-of-range coordinates yield a wrapped ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set writes v at (row, col). Errors: ErrOutOfRange, ErrNaNInf.
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy (new buffer, same numeric policy).
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{
		r:              m.r,
		c:              m.c,
		data:           cp,
		validateNaNInf: m.validateNaNInf,
	}
}

// String prints one bracketed row per line.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// Do calls f for every element in row-major order until f returns false.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// Flatten copies m into a new row-major slice owned by the caller.
// A *Dense is copied in one shot; other implementations go through At.
func Flatten(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(ctxFlatten, err)
	}
	rows, cols := m.Rows(), m.Cols()
	out := make([]float64, rows*cols)
	if d, ok := m.(*Dense); ok {
		copy(out, d.data)
		return out, nil
	}

	var i, j int
	var v float64
	var err error
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(ctxFlatten, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			out[i*cols+j] = v
		}
	}

	return out, nil
}

// Col returns a copy of column j of m.
// Errors: ErrNilMatrix, ErrOutOfRange.
// Complexity: O(r).
func Col(m Matrix, j int) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(ctxCol, err)
	}
	if j < 0 || j >= m.Cols() {
		return nil, matrixErrorf(ctxCol, fmt.Errorf("col %d: %w", j, ErrOutOfRange))
	}
	rows := m.Rows()
	out := make([]float64, rows)
	if d, ok := m.(*Dense); ok {
		for i := 0; i < rows; i++ {
			out[i] = d.data[i*d.c+j]
		}
		return out, nil
	}
	var err error
	for i := 0; i < rows; i++ {
		if out[i], err = m.At(i, j); err != nil {
			return nil, matrixErrorf(ctxCol, fmt.Errorf("At(%d,%d): %w", i, j, err))
		}
	}

	return out, nil
}
