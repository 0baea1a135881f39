// SPDX-License-Identifier: MIT
// Package decomp_test contains shared fixtures and a gonum reference oracle.
//
// Purpose:
//   • Deterministic fixtures (well-conditioned, tall, wide, rank deficient).
//   • Independent reference solutions from gonum.org/v1/gonum/mat.

package decomp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvsolve/decomp"
	"github.com/katalvlaran/lvsolve/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// hide wraps any Matrix to hide its concrete type, forcing the generic
// At-based ingestion path.
type hide struct{ matrix.Matrix }

// raw is an unguarded Matrix that may carry NaN/Inf.
type raw struct {
	r, c int
	v    []float64
}

func (m *raw) Rows() int { return m.r }
func (m *raw) Cols() int { return m.c }
func (m *raw) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, matrix.ErrOutOfRange
	}
	return m.v[i*m.c+j], nil
}
func (m *raw) Set(i, j int, v float64) error {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return matrix.ErrOutOfRange
	}
	m.v[i*m.c+j] = v
	return nil
}
func (m *raw) Clone() matrix.Matrix {
	return &raw{r: m.r, c: m.c, v: append([]float64(nil), m.v...)}
}

// allAlgorithms lists every engine for property tests.
var allAlgorithms = []decomp.Algorithm{decomp.AlgorithmLU, decomp.AlgorithmQR, decomp.AlgorithmSVD}

// newEngine builds an engine by name or fails the test.
func newEngine(t testing.TB, alg decomp.Algorithm, opts ...decomp.Option) decomp.DecompositionSolver {
	t.Helper()
	s, err := decomp.New(alg, opts...)
	require.NoError(t, err)

	return s
}

// dense builds a *matrix.Dense from rows or fails the test.
func dense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// randDense returns an r×c matrix with entries uniform in [-1, 1).
func randDense(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = rng.Float64()*2 - 1
	}
	m, err := matrix.NewDenseData(r, c, vals)
	require.NoError(t, err)

	return m
}

// diagDominant returns a random n×n matrix made strictly diagonally
// dominant, hence non-singular and well conditioned.
func diagDominant(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	m := randDense(t, n, n, seed)
	for i := 0; i < n; i++ {
		v, err := m.At(i, i)
		require.NoError(t, err)
		require.NoError(t, m.Set(i, i, v+float64(n)+1))
	}

	return m
}

// randVec returns a length-n vector with entries uniform in [-1, 1).
func randVec(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}

	return x
}

// toGonum copies m into a gonum Dense.
func toGonum(t testing.TB, m matrix.Matrix) *mat.Dense {
	t.Helper()
	data, err := matrix.Flatten(m)
	require.NoError(t, err)

	return mat.NewDense(m.Rows(), m.Cols(), data)
}

// refSolve is gonum's solution of A·x = b: LU for square A, QR least
// squares for tall A.
func refSolve(t testing.TB, a matrix.Matrix, b []float64) []float64 {
	t.Helper()
	var x mat.VecDense
	require.NoError(t, x.SolveVec(toGonum(t, a), mat.NewVecDense(len(b), append([]float64(nil), b...))))

	return append([]float64(nil), x.RawVector().Data...)
}

// refMinNorm is gonum's rank-truncated SVD solution of A·x = b.
func refMinNorm(t testing.TB, a matrix.Matrix, b []float64, rank int) []float64 {
	t.Helper()
	var svd mat.SVD
	require.True(t, svd.Factorize(toGonum(t, a), mat.SVDThin))
	var x mat.VecDense
	svd.SolveVecTo(&x, mat.NewVecDense(len(b), append([]float64(nil), b...)), rank)

	return append([]float64(nil), x.RawVector().Data...)
}

// refSingularValues returns gonum's singular values (descending).
func refSingularValues(t testing.TB, a matrix.Matrix) []float64 {
	t.Helper()
	var svd mat.SVD
	require.True(t, svd.Factorize(toGonum(t, a), mat.SVDNone))

	return svd.Values(nil)
}

// requireVecClose asserts ‖got − want‖∞ ≤ tol·max(1, ‖want‖∞).
func requireVecClose(t testing.TB, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	scale := math.Max(1, floats.Norm(want, math.Inf(1)))
	for i := range want {
		require.InDeltaf(t, want[i], got[i], tol*scale, "index %d: want %v got %v", i, want, got)
	}
}

// requireMatClose asserts AllClose(a, b) with an absolute tolerance.
func requireMatClose(t testing.TB, want, got matrix.Matrix, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, 0, atol)
	require.NoError(t, err)
	require.Truef(t, ok, "want\n%vgot\n%v", want, got)
}

// residualVec returns ‖A·x − b‖₂.
func residualVec(t testing.TB, a matrix.Matrix, x, b []float64) float64 {
	t.Helper()
	ax, err := matrix.MatVec(a, x)
	require.NoError(t, err)
	floats.Sub(ax, b)

	return floats.Norm(ax, 2)
}
