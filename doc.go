// Package lvsolve is an in-memory toolkit for solving dense linear systems
// A·X = B through matrix decompositions: exact solves for square systems,
// least squares for tall ones, and minimal-norm solutions for rank-deficient
// ones.
//
// What is inside?
//
//	A small, dependency-light library that brings together:
//		• Dense storage and the few kernels solvers need (matrix/)
//		• LU with partial pivoting: exact solves, determinant, inverse
//		• Householder QR: exact and least-squares solves, Q and R factors
//		• One-sided Jacobi SVD: minimal-norm solves for any rank, pseudo-inverse
//		• Versioned YAML snapshots of any factorization
//		• A CLI (cmd/lvsolve) reading systems from YAML
//
// Why lvsolve?
//
//   - One contract – every engine is a decomp.DecompositionSolver
//   - Explicit state – solve before decompose is an error, never a panic
//   - Documented numerics – one tolerance policy, overridable per engine
//   - Pure Go – no cgo, no BLAS
//
// Under the hood:
//
//	matrix/      Matrix interface, row-major Dense, validators, Mul/Sub/Transpose/MatVec, norms
//	decomp/      LU, QR, SVD engines, shared solver facade, Inverse, snapshots
//	cmd/lvsolve/ command-line front end (cobra, envconfig, slog + tint)
//
// Quick example:
//
//	A = ┌2 1┐   b = ┌3┐   ⇒   x = ┌0.8┐
//	    └1 3┘       └5┘           └1.4┘
//
//	lu := decomp.NewLU()
//	_ = lu.Decompose(a)
//	x, _ := lu.SolveVec([]float64{3, 5})
//
//	go get github.com/katalvlaran/lvsolve/decomp
package lvsolve
