// SPDX-License-Identifier: MIT

// Package matrix - norms and approximate comparison.
//
// Purpose:
//   - Supply the scale measures used by numeric tolerance policies
//     (VecMaxAbs drives the pivot threshold of elimination-based solvers).
//   - Provide AllClose for residual/invariance checks in tests and tools.

package matrix

import (
	"fmt"
	"math"
)

const (
	opFrobenius = "NormFrobenius"
	opAllClose  = "AllClose"
)

// NormFrobenius returns sqrt(Σ m(i,j)²), computed with scaling to avoid
// overflow on large entries.
// Complexity: O(r*c).
func NormFrobenius(m Matrix) (float64, error) {
	data, err := Flatten(m)
	if err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}

	return VecNorm2(data), nil
}

// VecNorm2 returns the Euclidean norm of x using the scaled sum of squares
// (LAPACK dnrm2 style), so huge or tiny entries do not overflow/underflow.
// Complexity: O(len(x)).
func VecNorm2(x []float64) float64 {
	scale, ssq := 0.0, 1.0
	var a, r float64
	for _, v := range x {
		if v == 0 {
			continue
		}
		a = math.Abs(v)
		if scale < a {
			r = scale / a
			ssq = 1 + ssq*r*r
			scale = a
		} else {
			r = a / scale
			ssq += r * r
		}
	}

	return scale * math.Sqrt(ssq)
}

// VecMaxAbs returns max |x[i]|, or 0 for an empty or all-zero slice.
func VecMaxAbs(x []float64) float64 {
	var best float64
	for _, v := range x {
		if a := math.Abs(v); a > best {
			best = a
		}
	}

	return best
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN never compares close.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances are rejected.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) (operands are flattened once).
//
// AI-Hints:
//   - AllClose with small atol/rtol is ideal for invariance tests.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	da, err := Flatten(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	db, err := Flatten(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for idx := range da {
		// Negated comparison so NaN fails closed.
		if !(math.Abs(da[idx]-db[idx]) <= atol+rtol*math.Abs(db[idx])) {
			return false, nil
		}
	}

	return true, nil
}

// Residual returns ‖A·X − B‖_F, the quantity a linear solve minimizes.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*n*c).
func Residual(a, x, b Matrix) (float64, error) {
	ax, err := Mul(a, x)
	if err != nil {
		return 0, fmt.Errorf("Residual: %w", err)
	}
	diff, err := Sub(ax, b)
	if err != nil {
		return 0, fmt.Errorf("Residual: %w", err)
	}

	return NormFrobenius(diff)
}
