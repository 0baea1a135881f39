// SPDX-License-Identifier: MIT

// Package matrix provides the dense real-valued containers consumed by the
// decomposition solvers in package decomp.
//
// The matrix package provides:
//
//   - Matrix, a minimal read/write interface (Rows, Cols, At, Set, Clone).
//   - Dense, a row-major implementation backed by a single flat slice.
//   - The handful of kernels solvers and their callers need: Mul, MatVec,
//     Transpose, Sub, and norms (VecMaxAbs, NormFrobenius, VecNorm2, AllClose).
//
// Vectors are plain []float64 slices. Every public operation validates its
// inputs through the central validators and returns sentinel errors wrapped
// with an operation tag, so callers match failures with errors.Is.
//
// This is deliberately not a general linear-algebra library: storage formats,
// broadcasting and statistics live elsewhere.
package matrix
