// SPDX-License-Identifier: MIT
// Package decomp_test contains unit tests for factorization snapshots.
package decomp_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/lvsolve/decomp"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_YAMLRoundTripSolvesIdentically(t *testing.T) {
	t.Parallel()

	systems := map[decomp.Algorithm][][]float64{
		decomp.AlgorithmLU:  {{4, 3, 2}, {2, 1, 3}, {3, 2, 1}},
		decomp.AlgorithmQR:  {{1, 0}, {1, 1}, {1, 2}, {1, 3}},
		decomp.AlgorithmSVD: {{1, 2, 3}, {2, 4, 6}, {1, 1, 1}},
	}
	for alg, rows := range systems {
		a := dense(t, rows)
		src := newEngine(t, alg)
		require.NoError(t, src.Decompose(a))

		snap, err := src.Snapshot()
		require.NoError(t, err)
		require.Equal(t, decomp.SnapshotVersion, snap.Version)
		require.Equal(t, alg, snap.Algorithm)

		var buf bytes.Buffer
		require.NoError(t, decomp.WriteSnapshot(&buf, snap))
		loaded, err := decomp.ReadSnapshot(&buf)
		require.NoError(t, err)
		require.Equal(t, snap, loaded)

		dst := newEngine(t, alg)
		require.NoError(t, dst.Restore(loaded))
		require.True(t, dst.IsDecomposed())
		r1, c1 := src.Dims()
		r2, c2 := dst.Dims()
		require.Equal(t, []int{r1, c1}, []int{r2, c2})

		b := randVec(a.Rows(), 91)
		want, err := src.SolveVec(b)
		require.NoError(t, err)
		got, err := dst.SolveVec(b)
		require.NoError(t, err)
		require.Equal(t, want, got, alg)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	t.Parallel()

	lu := decomp.NewLU()
	require.NoError(t, lu.Decompose(dense(t, [][]float64{{2, 1}, {1, 3}})))
	snap, err := lu.Snapshot()
	require.NoError(t, err)
	snap.Factors[decomp.FactorLU][0] = 1000
	snap.Pivot[0] = 1

	x, err := lu.SolveVec([]float64{3, 5})
	require.NoError(t, err)
	requireVecClose(t, []float64{0.8, 1.4}, x, 1e-14)
}

func TestSnapshot_SingularStateSurvives(t *testing.T) {
	t.Parallel()

	lu := decomp.NewLU()
	require.NoError(t, lu.Decompose(dense(t, [][]float64{{1, 2}, {2, 4}})))
	snap, err := lu.Snapshot()
	require.NoError(t, err)
	require.True(t, snap.Singular)

	restored := decomp.NewLU()
	require.NoError(t, restored.Restore(snap))
	_, err = restored.SolveVec([]float64{1, 2})
	require.ErrorIs(t, err, decomp.ErrSingular)
}

func TestSnapshot_RestoreRejectsInvalid(t *testing.T) {
	t.Parallel()

	good := func(t *testing.T, alg decomp.Algorithm) *decomp.Snapshot {
		e := newEngine(t, alg)
		require.NoError(t, e.Decompose(dense(t, [][]float64{{2, 1}, {1, 3}})))
		s, err := e.Snapshot()
		require.NoError(t, err)
		return s
	}

	lu, qr := decomp.AlgorithmLU, decomp.AlgorithmQR
	cases := []struct {
		name   string
		alg    decomp.Algorithm
		mutate func(s *decomp.Snapshot) *decomp.Snapshot
	}{
		{"nil", lu, func(*decomp.Snapshot) *decomp.Snapshot { return nil }},
		{"version", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Version = 2; return s }},
		{"algorithm", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Algorithm = decomp.AlgorithmQR; return s }},
		{"shape", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Rows = 0; return s }},
		{"non-square", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Cols = 3; return s }},
		{"sign", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Sign = 0; return s }},
		{"sign parity", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Sign = -s.Sign; return s }},
		{"pivot parity", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Pivot = []int{1, 0}; return s }},
		{"pivot duplicate", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Pivot = []int{0, 0}; return s }},
		{"pivot length", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Pivot = []int{0}; return s }},
		{"missing factor", lu, func(s *decomp.Snapshot) *decomp.Snapshot { delete(s.Factors, decomp.FactorLU); return s }},
		{"short factor", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Factors[decomp.FactorLU] = []float64{1}; return s }},
		{"NaN factor", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Factors[decomp.FactorLU][0] = math.NaN(); return s }},
		{"negative tolerance", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Tolerance = -1; return s }},
		{"singular flag", lu, func(s *decomp.Snapshot) *decomp.Snapshot { s.Singular = true; return s }},
		{"zeroed reflector", qr, func(s *decomp.Snapshot) *decomp.Snapshot { s.Factors[decomp.FactorQR][0] = 0; return s }},
		{"oversized reflector", qr, func(s *decomp.Snapshot) *decomp.Snapshot { s.Factors[decomp.FactorQR][3] = 3; return s }},
		{"short rdiag", qr, func(s *decomp.Snapshot) *decomp.Snapshot { s.Factors[decomp.FactorRDiag] = []float64{1}; return s }},
		{"qr singular flag", qr, func(s *decomp.Snapshot) *decomp.Snapshot { s.Singular = true; return s }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := newEngine(t, tc.alg)
			require.NoError(t, e.Decompose(dense(t, [][]float64{{1, 0}, {0, 1}})))
			err := e.Restore(tc.mutate(good(t, tc.alg)))
			require.ErrorIs(t, err, decomp.ErrInvalidSnapshot)
			require.False(t, e.IsDecomposed())

			_, err = e.SolveVec([]float64{3, 5})
			require.ErrorIs(t, err, decomp.ErrNotDecomposed)
		})
	}
}

func TestSnapshot_LUSignFollowsPivotParity(t *testing.T) {
	t.Parallel()

	lu := decomp.NewLU()
	require.NoError(t, lu.Decompose(dense(t, [][]float64{{1, 2, 0}, {3, 4, 1}, {0, 5, 6}})))
	det, err := lu.Determinant()
	require.NoError(t, err)
	snap, err := lu.Snapshot()
	require.NoError(t, err)

	restored := decomp.NewLU()
	require.NoError(t, restored.Restore(snap))
	got, err := restored.Determinant()
	require.NoError(t, err)
	require.Equal(t, det, got)

	snap.Sign = -snap.Sign
	require.ErrorIs(t, decomp.NewLU().Restore(snap), decomp.ErrInvalidSnapshot)
}

func TestSnapshot_SVDRankMustAgree(t *testing.T) {
	t.Parallel()

	svd := decomp.NewSVD()
	require.NoError(t, svd.Decompose(dense(t, [][]float64{{1, 2}, {2, 4}})))
	snap, err := svd.Snapshot()
	require.NoError(t, err)
	require.Equal(t, 1, snap.Rank)

	snap.Rank = 2
	require.ErrorIs(t, decomp.NewSVD().Restore(snap), decomp.ErrInvalidSnapshot)

	snap.Rank = 1
	snap.Factors[decomp.FactorS] = []float64{1, 2}
	require.ErrorIs(t, decomp.NewSVD().Restore(snap), decomp.ErrInvalidSnapshot)
}

func TestReadSnapshot_Malformed(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"not: [valid",
		"version: 9\nalgorithm: lu\n",
		"version: 1\nunknown_field: 3\n",
	} {
		_, err := decomp.ReadSnapshot(strings.NewReader(doc))
		require.ErrorIs(t, err, decomp.ErrInvalidSnapshot, doc)
	}

	require.ErrorIs(t, decomp.WriteSnapshot(&bytes.Buffer{}, nil), decomp.ErrInvalidSnapshot)
}
