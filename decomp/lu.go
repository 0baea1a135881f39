// SPDX-License-Identifier: MIT

// LU decomposition with partial pivoting.
//
// Purpose:
//   - Factor a square A as P·A = L·U (L unit lower, U upper triangular).
//   - Solve square non-singular systems exactly by permutation, forward and
//     backward substitution.
//
// Storage:
//   - lu packs both factors in one n×n row-major buffer: strictly below the
//     diagonal the multipliers of L, on and above the diagonal U.
//   - pivot[i] is the row of A that ended up in row i (P·A)[i] = A[pivot[i]].

package decomp

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/lvsolve/matrix"
)

const (
	opLUDecompose = "LU.Decompose"
	opLUSolve     = "LU.Solve"
	opLUSolveVec  = "LU.SolveVec"
	opLUFactor    = "LU.Factor"
)

// LU is a pivoted LU decomposition engine. The zero value is not usable;
// construct with NewLU.
type LU struct {
	facade
	lu       []float64 // packed L\U, n×n row-major
	pivot    []int     // row permutation
	sign     int       // permutation parity (+1 / -1)
	singular bool      // some pivot fell at or below tol
	tol      float64   // zero threshold used during elimination
}

// NewLU returns an Undecomposed LU engine.
func NewLU(opts ...Option) *LU {
	return &LU{facade: newFacade(AlgorithmLU, opts...)}
}

// Decompose factors the square matrix a with partial pivoting.
//
// Implementation:
//   - Stage 1: discard prior state; ingest a (nil/NaN checks, row-major copy).
//   - Stage 2: reject non-square input (ErrInvalidMatrix, cause matrix.ErrNonSquare).
//   - Stage 3: tol = zeroTolerance(n, n, max|a(i,j)|); run factorLU.
//
// Behavior highlights:
//   - A singular matrix still decomposes successfully; the flag gates solves.
//   - The caller's matrix is read once and never mutated.
//
// Errors:
//   - ErrInvalidMatrix (nil, NaN/Inf, non-square).
//
// Complexity:
//   - Time O(n³), Space O(n²).
func (d *LU) Decompose(a matrix.Matrix) error {
	d.reset()
	d.lu, d.pivot, d.sign, d.singular, d.tol = nil, nil, 0, false, 0

	data, _, n, err := d.ingest(opLUDecompose, a)
	if err != nil {
		return err
	}
	if err = matrix.ValidateSquare(a); err != nil {
		return invalidMatrixErr(opLUDecompose, err)
	}

	d.tol = zeroTolerance(d.opts, n, n, matrix.VecMaxAbs(data))
	d.pivot, d.sign, d.singular = factorLU(data, n, d.tol)
	d.lu = data
	d.markDecomposed(n, n)
	d.logDecomposed("decomposed",
		slog.Bool("singular", d.singular),
		slog.Float64("tolerance", d.tol))

	return nil
}

// factorLU eliminates lu (n×n, row-major) in place with partial pivoting.
//
// Implementation:
//   - Stage 1: at step k pick p = argmax_{i≥k} |lu(i,k)|; swap rows k and p,
//     record the swap in pivot and flip sign.
//   - Stage 2: if |lu(k,k)| ≤ tol mark singular, flush the (already tiny)
//     sub-diagonal entries to zero and skip the column.
//   - Stage 3: otherwise store multipliers l(i,k) and apply the rank-1 update
//     to the trailing block.
//
// Behavior highlights:
//   - Factors stay finite even for singular input; P·A ≈ L·U within tol.
//
// Complexity:
//   - Time O(n³), Space O(n) for pivot.
func factorLU(lu []float64, n int, tol float64) (pivot []int, sign int, singular bool) {
	pivot = make([]int, n)
	for i := range pivot {
		pivot[i] = i
	}
	sign = 1

	var (
		i, j, k, p     int
		maxV, v, pv, l float64
		rowI, rowK     int
	)
	for k = 0; k < n; k++ {
		// Find the pivot row.
		p, maxV = k, math.Abs(lu[k*n+k])
		for i = k + 1; i < n; i++ {
			if v = math.Abs(lu[i*n+k]); v > maxV {
				p, maxV = i, v
			}
		}
		if p != k {
			for j = 0; j < n; j++ {
				lu[k*n+j], lu[p*n+j] = lu[p*n+j], lu[k*n+j]
			}
			pivot[k], pivot[p] = pivot[p], pivot[k]
			sign = -sign
		}

		if maxV <= tol {
			singular = true
			for i = k + 1; i < n; i++ {
				lu[i*n+k] = 0
			}
			continue
		}

		pv = lu[k*n+k]
		rowK = k * n
		for i = k + 1; i < n; i++ {
			rowI = i * n
			l = lu[rowI+k] / pv
			lu[rowI+k] = l
			if l == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				lu[rowI+j] -= l * lu[rowK+j]
			}
		}
	}

	return pivot, sign, singular
}

// SolveVec solves A·x = b exactly.
// Errors: ErrNotDecomposed, ErrDimensionMismatch, ErrSingular.
// Complexity: O(n²).
func (d *LU) SolveVec(b []float64) ([]float64, error) {
	if err := d.checkVec(opLUSolveVec, b); err != nil {
		return nil, err
	}
	if d.singular {
		return nil, singularErr(opLUSolveVec)
	}

	return d.solveVec(b), nil
}

// Solve solves A·X = B column by column.
// Errors: ErrNotDecomposed, ErrDimensionMismatch, ErrSingular.
// Complexity: O(n²·cols(B)).
func (d *LU) Solve(b matrix.Matrix) (matrix.Matrix, error) {
	if err := d.checkMatrix(opLUSolve, b); err != nil {
		return nil, err
	}
	if d.singular {
		return nil, singularErr(opLUSolve)
	}

	return d.solveColumns(opLUSolve, b, d.solveVec)
}

// solveVec runs P·b → forward (unit L) → backward (U) on a fresh buffer.
// Reads engine state only; safe for concurrent use.
func (d *LU) solveVec(b []float64) []float64 {
	n := d.rows
	x := make([]float64, n)
	var i, j, row int
	var sum float64
	for i = 0; i < n; i++ {
		x[i] = b[d.pivot[i]]
	}
	// Forward: L·y = P·b (unit diagonal).
	for i = 0; i < n; i++ {
		row = i * n
		sum = x[i]
		for j = 0; j < i; j++ {
			sum -= d.lu[row+j] * x[j]
		}
		x[i] = sum
	}
	// Backward: U·x = y.
	for i = n - 1; i >= 0; i-- {
		row = i * n
		sum = x[i]
		for j = i + 1; j < n; j++ {
			sum -= d.lu[row+j] * x[j]
		}
		x[i] = sum / d.lu[row+i]
	}

	return x
}

// IsNonSingular reports whether every pivot exceeded the tolerance.
func (d *LU) IsNonSingular() (bool, error) {
	if err := d.checkState(opLUFactor); err != nil {
		return false, err
	}

	return !d.singular, nil
}

// L returns the unit lower-triangular factor.
func (d *LU) L() (matrix.Matrix, error) {
	if err := d.checkState(opLUFactor); err != nil {
		return nil, err
	}
	n := d.rows
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		copy(out[i*n:i*n+i], d.lu[i*n:i*n+i])
		out[i*n+i] = 1
	}

	return denseOf(opLUFactor, n, n, out)
}

// U returns the upper-triangular factor.
func (d *LU) U() (matrix.Matrix, error) {
	if err := d.checkState(opLUFactor); err != nil {
		return nil, err
	}
	n := d.rows
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		copy(out[i*n+i:(i+1)*n], d.lu[i*n+i:(i+1)*n])
	}

	return denseOf(opLUFactor, n, n, out)
}

// P returns the permutation matrix with P·A = L·U.
func (d *LU) P() (matrix.Matrix, error) {
	if err := d.checkState(opLUFactor); err != nil {
		return nil, err
	}
	n := d.rows
	out := make([]float64, n*n)
	for i, p := range d.pivot {
		out[i*n+p] = 1
	}

	return denseOf(opLUFactor, n, n, out)
}

// Pivot returns a copy of the row permutation: row i of P·A is row Pivot()[i] of A.
func (d *LU) Pivot() ([]int, error) {
	if err := d.checkState(opLUFactor); err != nil {
		return nil, err
	}

	return append([]int(nil), d.pivot...), nil
}

// Determinant returns det(A) = sign · Π u(k,k); exactly 0 when singular.
func (d *LU) Determinant() (float64, error) {
	if err := d.checkState(opLUFactor); err != nil {
		return 0, err
	}
	if d.singular {
		return 0, nil
	}
	n := d.rows
	det := float64(d.sign)
	for k := 0; k < n; k++ {
		det *= d.lu[k*n+k]
	}

	return det, nil
}

// Tolerance returns the zero threshold used by the last Decompose.
func (d *LU) Tolerance() float64 { return d.tol }

// denseOf wraps a freshly built row-major buffer as a *matrix.Dense.
func denseOf(op string, rows, cols int, data []float64) (matrix.Matrix, error) {
	m, err := matrix.NewDenseData(rows, cols, data)
	if err != nil {
		return nil, decompErrorf(op, err)
	}

	return m, nil
}
