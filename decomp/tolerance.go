// SPDX-License-Identifier: MIT

package decomp

import "math"

// machEps is the float64 unit roundoff spacing at 1.0 (2⁻⁵²).
const machEps = 0x1p-52

// jacobiTolFactor scales m·ε into the orthogonality threshold of a Jacobi
// rotation pair (the GSL one-sided Jacobi choice).
const jacobiTolFactor = 10.0

// zeroTolerance returns the magnitude at or below which a pivot, an R
// diagonal entry or a singular value is treated as zero.
//
// Implementation:
//   - Stage 1: an explicit absolute threshold (WithSingularityThreshold) wins.
//   - Stage 2: otherwise max(m,n)·ε·scale, where scale is the algorithm's
//     magnitude reference (max |a(i,j)|, max |r(k,k)| or σ_max).
//
// Behavior highlights:
//   - scale == 0 yields 0, so an all-zero matrix is singular under "≤".
//
// Complexity:
//   - Time O(1), Space O(1).
func zeroTolerance(o Options, m, n int, scale float64) float64 {
	if o.threshold > 0 {
		return o.threshold
	}

	return float64(max(m, n)) * machEps * math.Abs(scale)
}
