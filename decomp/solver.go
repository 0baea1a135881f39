// SPDX-License-Identifier: MIT

// Public contract and factory.
//
// Purpose:
//   - Declare the DecompositionSolver capability shared by LU, QR and SVD.
//   - Map algorithm names to engines (New, ParseAlgorithm) for callers that
//     pick the algorithm at runtime (CLI flags, configuration).

package decomp

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvsolve/matrix"
)

// Algorithm names a decomposition variant.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmLU  Algorithm = "lu"
	AlgorithmQR  Algorithm = "qr"
	AlgorithmSVD Algorithm = "svd"
)

const (
	opNew     = "New"
	opParse   = "ParseAlgorithm"
	opInverse = "Inverse"
)

// String implements fmt.Stringer.
func (a Algorithm) String() string { return string(a) }

// DecompositionSolver decomposes a matrix A once and solves A·X = B for any
// number of right-hand sides, in the least-squares sense where the variant
// supports it: X minimizes ‖A·X − B‖₂, and among minimizers has minimal norm.
//
// Some variants (LU) only produce exact solutions of square non-singular
// systems; others (QR, SVD) also accept rectangular A. When an exact solution
// exists it is also the minimal-norm least-squares solution.
type DecompositionSolver interface {
	// Decompose factors a, replacing any previous factorization.
	// Errors: ErrInvalidMatrix (nil, non-finite, structural violation),
	// ErrNotConverged (SVD). A failed call leaves the engine Undecomposed.
	Decompose(a matrix.Matrix) error

	// SolveVec returns a fresh x of length Cols(A) for right-hand side b.
	// Errors: ErrNotDecomposed, ErrDimensionMismatch, ErrSingular.
	SolveVec(b []float64) ([]float64, error)

	// Solve returns a fresh X with Cols(A) rows and Cols(b) columns; each
	// column equals SolveVec of the corresponding column of b.
	// Errors: ErrNotDecomposed, ErrDimensionMismatch, ErrSingular.
	Solve(b matrix.Matrix) (matrix.Matrix, error)

	// IsDecomposed reports whether the engine holds a factorization.
	IsDecomposed() bool

	// IsNonSingular reports whether the decomposed matrix admits unique
	// solutions under the active tolerance. Errors: ErrNotDecomposed.
	IsNonSingular() (bool, error)

	// Dims returns the (rows, cols) of the decomposed matrix, (0, 0) before.
	Dims() (rows, cols int)

	// Algorithm names the variant.
	Algorithm() Algorithm

	// Snapshot returns an independent, versioned copy of the factorization.
	// Errors: ErrNotDecomposed.
	Snapshot() (*Snapshot, error)

	// Restore loads a factorization from s. Errors: ErrInvalidSnapshot.
	Restore(s *Snapshot) error
}

// Compile-time assertions: every engine satisfies the contract.
var (
	_ DecompositionSolver = (*LU)(nil)
	_ DecompositionSolver = (*QR)(nil)
	_ DecompositionSolver = (*SVD)(nil)
)

// ParseAlgorithm maps a case-insensitive name ("lu", "qr", "svd") to an
// Algorithm. Errors: ErrUnknownAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case AlgorithmLU, AlgorithmQR, AlgorithmSVD:
		return alg, nil
	default:
		return "", decompErrorf(opParse, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm))
	}
}

// New builds an Undecomposed engine for alg.
// Errors: ErrUnknownAlgorithm.
func New(alg Algorithm, opts ...Option) (DecompositionSolver, error) {
	switch alg {
	case AlgorithmLU:
		return NewLU(opts...), nil
	case AlgorithmQR:
		return NewQR(opts...), nil
	case AlgorithmSVD:
		return NewSVD(opts...), nil
	default:
		return nil, decompErrorf(opNew, fmt.Errorf("%q: %w", string(alg), ErrUnknownAlgorithm))
	}
}

// Inverse solves A·X = I_m against the factorization held by s.
// Implementation:
//   - Stage 1: require a Decomposed engine (ErrNotDecomposed otherwise).
//   - Stage 2: build I_m (m = rows of A) and delegate to s.Solve.
//
// Behavior highlights:
//   - LU/QR on square non-singular A: the inverse A⁻¹.
//   - SVD on any A: the Moore–Penrose pseudo-inverse A⁺ (n×m).
//
// Errors:
//   - ErrNotDecomposed, ErrSingular (exact variants on singular A).
//
// Complexity:
//   - Time O(m · solve), Space O(m·n).
func Inverse(s DecompositionSolver) (matrix.Matrix, error) {
	if s == nil || !s.IsDecomposed() {
		return nil, decompErrorf(opInverse, ErrNotDecomposed)
	}
	rows, _ := s.Dims()
	id, err := matrix.NewIdentity(rows)
	if err != nil {
		return nil, decompErrorf(opInverse, err)
	}
	inv, err := s.Solve(id)
	if err != nil {
		return nil, decompErrorf(opInverse, err)
	}

	return inv, nil
}
