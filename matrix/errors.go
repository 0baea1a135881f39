// SPDX-License-Identifier: MIT

package matrix

import "errors"

// Sentinels are returned wrapped with the failing operation, e.g.
// "Mul: ValidateMulCompatible: matrix: dimension mismatch"; match with errors.Is.
// Check order in every kernel: nil, then shape, then values.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange is returned by At/Set for a row or column outside the shape.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Sub on different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf rejects NaN or ±Inf on write and at decomposition time.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrRagged indicates that row slices handed to NewDenseFrom differ in length.
	ErrRagged = errors.New("matrix: ragged rows")

	// ErrSingular is returned when a matrix has no unique exact inverse
	// (a pivot vanished under the active tolerance).
	ErrSingular = errors.New("matrix: singular matrix")
)
