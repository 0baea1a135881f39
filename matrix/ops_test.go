// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the Dense kernels.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvsolve/matrix"
	"github.com/stretchr/testify/require"
)

func TestMul_Known2x3x2(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	got, err := matrix.Mul(a, b)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{58, 64}, {139, 154}}, got)

	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestKernels_FastPathMatchesFallback(t *testing.T) {
	t.Parallel()

	a := RandFilledDense(t, 4, 3, 11)
	b := RandFilledDense(t, 3, 5, 12)
	c := RandFilledDense(t, 4, 3, 13)

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{a}, b)
	require.NoError(t, err)
	require.Equal(t, fast, slow)

	fast, err = matrix.Sub(a, c)
	require.NoError(t, err)
	slow, err = matrix.Sub(a, hide{c})
	require.NoError(t, err)
	require.Equal(t, fast, slow)

	fast, err = matrix.Transpose(a)
	require.NoError(t, err)
	slow, err = matrix.Transpose(hide{a})
	require.NoError(t, err)
	require.Equal(t, fast, slow)
	require.Equal(t, MustAt(t, a, 3, 1), MustAt(t, fast, 1, 3))

	x := []float64{1, -2, 0.5}
	y1, err := matrix.MatVec(a, x)
	require.NoError(t, err)
	y2, err := matrix.MatVec(hide{a}, x)
	require.NoError(t, err)
	require.Equal(t, y1, y2)
}

func TestMatVec_Errors(t *testing.T) {
	t.Parallel()

	a := MustDense(t, 2, 3)
	_, err := matrix.MatVec(a, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(nil, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSub_ShapeMismatch(t *testing.T) {
	t.Parallel()

	_, err := matrix.Sub(MustDense(t, 2, 2), MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
