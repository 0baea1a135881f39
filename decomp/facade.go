// SPDX-License-Identifier: MIT

// Shared solver facade.
//
// Purpose:
//   - Own the Undecomposed → Decomposed state machine for every variant.
//   - Validate the decomposed matrix and right-hand sides in one place.
//   - Implement matrix solves as column-wise vector solves, so Solve(B)'s
//     j-th column is exactly SolveVec(B[:, j]).
//
// Variants embed facade by value; it carries no algorithm knowledge.

package decomp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvsolve/matrix"
)

type facade struct {
	alg        Algorithm
	opts       Options
	rows, cols int  // shape of the decomposed matrix
	decomposed bool // Undecomposed (false) → Decomposed (true)
}

func newFacade(alg Algorithm, opts ...Option) facade {
	return facade{alg: alg, opts: gatherOptions(opts...)}
}

// IsDecomposed reports whether a factorization is held.
func (f *facade) IsDecomposed() bool { return f.decomposed }

// Dims returns the decomposed (rows, cols); (0, 0) when Undecomposed.
func (f *facade) Dims() (rows, cols int) { return f.rows, f.cols }

// Algorithm names the variant.
func (f *facade) Algorithm() Algorithm { return f.alg }

// reset drops back to Undecomposed.
func (f *facade) reset() {
	f.rows, f.cols, f.decomposed = 0, 0, false
}

// markDecomposed enters Decomposed for an m×n factorization.
func (f *facade) markDecomposed(m, n int) {
	f.rows, f.cols, f.decomposed = m, n, true
}

// ingest validates a and returns its row-major copy with its shape.
// Implementation:
//   - Stage 1: nil → ErrInvalidMatrix (cause matrix.ErrNilMatrix).
//   - Stage 2: NaN/±Inf → ErrInvalidMatrix (cause matrix.ErrNaNInf).
//   - Stage 3: matrix.Flatten; the caller's matrix is never touched again.
//
// Complexity:
//   - Time O(m·n), Space O(m·n).
func (f *facade) ingest(op string, a matrix.Matrix) ([]float64, int, int, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, 0, 0, invalidMatrixErr(op, err)
	}
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, 0, 0, invalidMatrixErr(op, err)
	}
	data, err := matrix.Flatten(a)
	if err != nil {
		return nil, 0, 0, invalidMatrixErr(op, err)
	}

	return data, a.Rows(), a.Cols(), nil
}

// checkState returns ErrNotDecomposed while Undecomposed.
func (f *facade) checkState(op string) error {
	if !f.decomposed {
		return decompErrorf(op, ErrNotDecomposed)
	}

	return nil
}

// checkVec enforces the solve preconditions for a vector right-hand side,
// in documented order: state, then length.
func (f *facade) checkVec(op string, b []float64) error {
	if err := f.checkState(op); err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%s: %w: %w", op, ErrDimensionMismatch, matrix.ErrNilMatrix)
	}
	if len(b) != f.rows {
		return decompErrorf(op, fmt.Errorf("rhs length %d, want %d: %w", len(b), f.rows, ErrDimensionMismatch))
	}

	return nil
}

// checkMatrix enforces the solve preconditions for a matrix right-hand side.
func (f *facade) checkMatrix(op string, b matrix.Matrix) error {
	if err := f.checkState(op); err != nil {
		return err
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrDimensionMismatch, err)
	}
	if b.Rows() != f.rows {
		return decompErrorf(op, fmt.Errorf("rhs rows %d, want %d: %w", b.Rows(), f.rows, ErrDimensionMismatch))
	}

	return nil
}

// solveColumns solves every column of b with solve and assembles X
// (f.cols × b.Cols()). Preconditions are the caller's job (checkMatrix).
//
// Behavior highlights:
//   - Columns are independent; X[:, j] == solve(b[:, j]) bit for bit.
//   - All or nothing: no partial X escapes on error.
//
// Complexity:
//   - Time O(cols(b) · solve), Space O(n·cols(b)).
func (f *facade) solveColumns(op string, b matrix.Matrix, solve func(rhs []float64) []float64) (matrix.Matrix, error) {
	k := b.Cols()
	out := make([]float64, f.cols*k)
	var col, x []float64
	var err error
	for j := 0; j < k; j++ {
		if col, err = matrix.Col(b, j); err != nil {
			return nil, decompErrorf(op, err)
		}
		x = solve(col)
		for i := 0; i < f.cols; i++ {
			out[i*k+j] = x[i]
		}
	}
	res, err := matrix.NewDenseData(f.cols, k, out)
	if err != nil {
		return nil, decompErrorf(op, err)
	}

	return res, nil
}

// logDecomposed emits one Debug record per successful state transition.
func (f *facade) logDecomposed(msg string, attrs ...slog.Attr) {
	base := []slog.Attr{
		slog.String("algorithm", f.alg.String()),
		slog.Int("rows", f.rows),
		slog.Int("cols", f.cols),
	}
	f.opts.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, append(base, attrs...)...)
}
