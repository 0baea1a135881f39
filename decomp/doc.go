// SPDX-License-Identifier: MIT

// Package decomp solves linear systems A·X = B through matrix decompositions.
//
// What & Why:
//
//	A DecompositionSolver factors A once (Decompose) and then answers any
//	number of right-hand sides (SolveVec for vectors, Solve for matrices).
//	Three variants share one contract:
//
//	  LU  – Gaussian elimination with partial pivoting. Square A only; exact
//	        solves; fails with ErrSingular when A is (numerically) singular.
//	  QR  – Householder reflections. Any m×n A; exact or least-squares solves
//	        when A has full column rank (m ≥ n); ErrSingular otherwise.
//	  SVD – One-sided Jacobi. Any m×n A of any rank; always returns the
//	        minimal-norm least-squares solution.
//
// State machine:
//
//	Undecomposed ──Decompose(A)──▶ Decomposed ──Decompose(A')──▶ Decomposed
//	      ▲                             │
//	      └──── failed Decompose ───────┘
//
//	SolveVec/Solve/accessors are valid only in Decomposed; otherwise they
//	return ErrNotDecomposed. Solves never mutate the factorization, so one
//	Decomposed engine may serve concurrent solves. Decompose is not safe to
//	call concurrently with anything else on the same engine.
//
// Errors (match with errors.Is):
//
//	ErrInvalidMatrix     – A violates the algorithm's structural requirement.
//	ErrNotDecomposed     – solve or accessor before a successful Decompose.
//	ErrDimensionMismatch – B's row count differs from A's.
//	ErrSingular          – exact solve requested on a singular factorization
//	                       (also matches ErrInvalidMatrix).
//
// Numeric policy:
//
//	A pivot (LU), R diagonal (QR) or singular value (SVD) counts as zero when
//	its magnitude is ≤ max(m,n)·ε·scale, with ε the float64 machine epsilon
//	and scale the largest |a(i,j)|, |r(k,k)| or σ respectively. Override with
//	WithSingularityThreshold.
//
//	Each engine measures against its own scale, so for matrices with a
//	condition number near 1/ε the engines can disagree: LU may call a matrix
//	non-singular that QR calls singular. Pass the same absolute threshold to
//	every engine when the verdicts must match.
//
// Factorizations can be persisted through versioned snapshots (Snapshot,
// Restore, WriteSnapshot, ReadSnapshot).
package decomp
