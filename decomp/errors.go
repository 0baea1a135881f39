// SPDX-License-Identifier: MIT
// Engines return these sentinels wrapped with an operation tag
// ("LU.Decompose: ...") and tests match them via errors.Is.

package decomp

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvsolve/matrix"
)

var (
	// ErrInvalidMatrix signals that the matrix handed to Decompose violates the
	// algorithm's structural requirement (nil, non-finite, non-square for LU).
	// Singular exact solves match it as well.
	ErrInvalidMatrix = errors.New("decomp: invalid matrix")

	// ErrNotDecomposed signals a solve or accessor call before any successful
	// Decompose (or Restore).
	ErrNotDecomposed = errors.New("decomp: matrix not decomposed")

	// ErrDimensionMismatch signals a right-hand side whose row count differs
	// from the decomposed matrix. Same sentinel as the matrix package.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrSingular signals an exact solve against a singular factorization.
	// Same sentinel as the matrix package.
	ErrSingular = matrix.ErrSingular

	// ErrNotConverged signals that the Jacobi SVD exhausted its sweep budget.
	ErrNotConverged = errors.New("decomp: iteration did not converge")

	// ErrInvalidSnapshot signals a snapshot with an unknown version, a foreign
	// algorithm or inconsistent buffer lengths.
	ErrInvalidSnapshot = errors.New("decomp: invalid snapshot")

	// ErrUnknownAlgorithm signals an unrecognised Algorithm name.
	ErrUnknownAlgorithm = errors.New("decomp: unknown algorithm")
)

// decompErrorf wraps err with an operation tag, preserving it for errors.Is.
func decompErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// invalidMatrixErr reports a structural violation while keeping the precise
// cause (matrix.ErrNonSquare, matrix.ErrNaNInf, ...) matchable.
func invalidMatrixErr(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInvalidMatrix, cause)
}

// singularErr reports an exact solve against a singular factorization.
func singularErr(op string) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInvalidMatrix, ErrSingular)
}
