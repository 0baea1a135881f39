// SPDX-License-Identifier: MIT

// Singular value decomposition by one-sided Jacobi.
//
// Purpose:
//   - Factor any m×n A as A = U·diag(s)·Vᵀ with k = min(m,n) singular values
//     sorted in descending order.
//   - Solve any system (square, rectangular, rank deficient) in the
//     minimal-norm least-squares sense: x = Σ_{σᵢ > tol} (uᵢᵀ·b / σᵢ)·vᵢ.
//
// Algorithm (Hestenes):
//   - Orthogonalize the columns of W = A (or Aᵀ when m < n) pairwise by plane
//     rotations, accumulating them into V, until a full sweep rotates nothing.
//   - Then σⱼ = ‖wⱼ‖ and uⱼ = wⱼ/σⱼ.

package decomp

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/katalvlaran/lvsolve/matrix"
)

const (
	opSVDDecompose = "SVD.Decompose"
	opSVDSolve     = "SVD.Solve"
	opSVDSolveVec  = "SVD.SolveVec"
	opSVDFactor    = "SVD.Factor"
)

// SVD is a one-sided Jacobi SVD engine. Construct with NewSVD.
type SVD struct {
	facade
	u      []float64 // m×k row-major, columns are left singular vectors
	s      []float64 // k singular values, descending
	v      []float64 // n×k row-major, columns are right singular vectors
	k      int       // min(m,n)
	rank   int       // count of σ > tol
	tol    float64
	sweeps int // sweeps used by the last Decompose
}

// NewSVD returns an Undecomposed SVD engine.
func NewSVD(opts ...Option) *SVD {
	return &SVD{facade: newFacade(AlgorithmSVD, opts...)}
}

// Decompose computes the thin SVD of a (any m×n).
//
// Implementation:
//   - Stage 1: discard prior state; ingest a.
//   - Stage 2: m ≥ n → Jacobi on A; m < n → Jacobi on Aᵀ and swap U/V.
//   - Stage 3: sort σ descending (permuting U and V columns alike);
//     tol = zeroTolerance(m, n, σ_max); rank = #{σ > tol}.
//
// Behavior highlights:
//   - Never reports singularity as an error; rank carries it.
//   - Columns of U for σ = 0 are zero vectors.
//
// Errors:
//   - ErrInvalidMatrix (nil, NaN/Inf), ErrNotConverged (sweep budget).
//
// Complexity:
//   - Time O(sweeps·m·n·min(m,n)), Space O(m·n).
func (d *SVD) Decompose(a matrix.Matrix) error {
	d.reset()
	d.u, d.s, d.v, d.k, d.rank, d.tol, d.sweeps = nil, nil, nil, 0, 0, 0, 0

	data, m, n, err := d.ingest(opSVDDecompose, a)
	if err != nil {
		return err
	}

	var u, s, v []float64
	var sweeps int
	if m >= n {
		u, s, v, sweeps, err = jacobiSVD(data, m, n, d.opts.maxSweeps)
	} else {
		// Aᵀ = U'·Σ·V'ᵀ  ⇒  A = V'·Σ·U'ᵀ.
		v, s, u, sweeps, err = jacobiSVD(transposeData(data, m, n), n, m, d.opts.maxSweeps)
	}
	if err != nil {
		return decompErrorf(opSVDDecompose, err)
	}

	k := min(m, n)
	sortSingular(u, s, v, m, n, k)

	d.u, d.s, d.v, d.k, d.sweeps = u, s, v, k, sweeps
	if k > 0 {
		d.tol = zeroTolerance(d.opts, m, n, s[0])
	}
	d.rank = rankOf(s, d.tol)
	d.markDecomposed(m, n)
	d.logDecomposed("decomposed",
		slog.Int("rank", d.rank),
		slog.Int("sweeps", sweeps),
		slog.Float64("tolerance", d.tol))

	return nil
}

// jacobiSVD orthogonalizes the columns of w (m×n, m ≥ n, row-major, consumed)
// and returns U (m×n), σ (n), V (n×n) unsorted, plus the sweeps used.
//
// Implementation:
//   - For each pair (j<k): α = ‖wⱼ‖², β = ‖wₖ‖², γ = wⱼ·wₖ. Rotate only when
//     |γ| > 10·m·ε·√(αβ); ζ = (β−α)/(2γ), t = sign(ζ)/(|ζ|+√(1+ζ²)),
//     c = 1/√(1+t²), s = c·t.
//   - A pair whose shorter column is below ε times the longer one is skipped:
//     the rotation cannot move the long column by even one ulp, and the short
//     one already lies under every rank tolerance.
//   - Stop after the first sweep without rotations.
//
// Errors:
//   - ErrNotConverged when maxSweeps sweeps all rotated.
func jacobiSVD(w []float64, m, n, maxSweeps int) (u, sigma, v []float64, sweeps int, err error) {
	v = make([]float64, n*n)
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}
	tol := jacobiTolFactor * float64(m) * machEps

	var (
		i, j, k               int
		alpha, beta, gamma    float64
		zeta, t, c, s, wj, wk float64
		rotated, converged    bool
	)
	for sweeps = 1; sweeps <= maxSweeps; sweeps++ {
		rotated = false
		for j = 0; j < n-1; j++ {
			for k = j + 1; k < n; k++ {
				alpha, beta, gamma = 0, 0, 0
				for i = 0; i < m; i++ {
					wj, wk = w[i*n+j], w[i*n+k]
					alpha += wj * wj
					beta += wk * wk
					gamma += wj * wk
				}
				if math.Abs(gamma) <= tol*math.Sqrt(alpha*beta) ||
					min(alpha, beta) <= machEps*machEps*max(alpha, beta) {
					continue
				}
				rotated = true

				zeta = (beta - alpha) / (2 * gamma)
				t = math.Copysign(1, zeta) / (math.Abs(zeta) + math.Sqrt(1+zeta*zeta))
				c = 1 / math.Sqrt(1+t*t)
				s = c * t
				for i = 0; i < m; i++ {
					wj, wk = w[i*n+j], w[i*n+k]
					w[i*n+j] = c*wj - s*wk
					w[i*n+k] = s*wj + c*wk
				}
				for i = 0; i < n; i++ {
					wj, wk = v[i*n+j], v[i*n+k]
					v[i*n+j] = c*wj - s*wk
					v[i*n+k] = s*wj + c*wk
				}
			}
		}
		if !rotated {
			converged = true
			break
		}
	}
	if !converged {
		return nil, nil, nil, maxSweeps, fmt.Errorf("%d sweeps: %w", maxSweeps, ErrNotConverged)
	}

	sigma = make([]float64, n)
	col := make([]float64, m)
	for j = 0; j < n; j++ {
		for i = 0; i < m; i++ {
			col[i] = w[i*n+j]
		}
		sigma[j] = matrix.VecNorm2(col)
		if sigma[j] == 0 {
			continue
		}
		for i = 0; i < m; i++ {
			w[i*n+j] /= sigma[j]
		}
	}

	return w, sigma, v, sweeps, nil
}

// sortSingular orders s descending and applies the same column permutation
// to u (m×k) and v (n×k).
func sortSingular(u, s, v []float64, m, n, k int) {
	perm := make([]int, k)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return s[perm[a]] > s[perm[b]] })

	s2 := make([]float64, k)
	for j, p := range perm {
		s2[j] = s[p]
	}
	copy(s, s2)
	permuteCols(u, m, k, perm)
	permuteCols(v, n, k, perm)
}

// permuteCols rewrites x (rows×cols) so that column j holds old column perm[j].
func permuteCols(x []float64, rows, cols int, perm []int) {
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j, p := range perm {
			row[j] = x[i*cols+p]
		}
		copy(x[i*cols:(i+1)*cols], row)
	}
}

// rankOf counts singular values strictly above tol.
func rankOf(s []float64, tol float64) int {
	r := 0
	for _, v := range s {
		if v > tol {
			r++
		}
	}

	return r
}

// transposeData returns the n×m row-major transpose of data (m×n).
func transposeData(data []float64, m, n int) []float64 {
	t := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			t[j*m+i] = data[i*n+j]
		}
	}

	return t
}

// SolveVec returns the minimal-norm least-squares solution of A·x = b.
// Errors: ErrNotDecomposed, ErrDimensionMismatch.
// Complexity: O(m·k + n·k).
func (d *SVD) SolveVec(b []float64) ([]float64, error) {
	if err := d.checkVec(opSVDSolveVec, b); err != nil {
		return nil, err
	}

	return d.solveVec(b), nil
}

// Solve returns the minimal-norm least-squares solution of A·X = B.
// Errors: ErrNotDecomposed, ErrDimensionMismatch.
func (d *SVD) Solve(b matrix.Matrix) (matrix.Matrix, error) {
	if err := d.checkMatrix(opSVDSolve, b); err != nil {
		return nil, err
	}

	return d.solveColumns(opSVDSolve, b, d.solveVec)
}

// solveVec accumulates x = Σ_{i<rank} (uᵢᵀ·b / σᵢ)·vᵢ.
func (d *SVD) solveVec(b []float64) []float64 {
	m, n, k := d.rows, d.cols, d.k
	x := make([]float64, n)
	var i, j int
	var coef float64
	for j = 0; j < d.rank; j++ {
		coef = 0
		for i = 0; i < m; i++ {
			coef += d.u[i*k+j] * b[i]
		}
		coef /= d.s[j]
		for i = 0; i < n; i++ {
			x[i] += coef * d.v[i*k+j]
		}
	}

	return x
}

// IsNonSingular reports whether A is square with full rank.
func (d *SVD) IsNonSingular() (bool, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return false, err
	}

	return d.rows == d.cols && d.rank == d.cols, nil
}

// U returns the m×k left singular vectors.
func (d *SVD) U() (matrix.Matrix, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return nil, err
	}

	return denseOf(opSVDFactor, d.rows, d.k, append([]float64(nil), d.u...))
}

// V returns the n×k right singular vectors.
func (d *SVD) V() (matrix.Matrix, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return nil, err
	}

	return denseOf(opSVDFactor, d.cols, d.k, append([]float64(nil), d.v...))
}

// S returns diag(s) as a k×k matrix.
func (d *SVD) S() (matrix.Matrix, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return nil, err
	}
	out := make([]float64, d.k*d.k)
	for i, v := range d.s {
		out[i*d.k+i] = v
	}

	return denseOf(opSVDFactor, d.k, d.k, out)
}

// SingularValues returns a copy of σ in descending order.
func (d *SVD) SingularValues() ([]float64, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return nil, err
	}

	return append([]float64(nil), d.s...), nil
}

// Rank returns the effective rank under the active tolerance.
func (d *SVD) Rank() (int, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return 0, err
	}

	return d.rank, nil
}

// ConditionNumber returns σ_max/σ_min; +Inf when σ_min is zero.
func (d *SVD) ConditionNumber() (float64, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return 0, err
	}
	if d.k == 0 || d.s[d.k-1] == 0 {
		return math.Inf(1), nil
	}

	return d.s[0] / d.s[d.k-1], nil
}

// Norm returns the spectral norm ‖A‖₂ = σ_max.
func (d *SVD) Norm() (float64, error) {
	if err := d.checkState(opSVDFactor); err != nil {
		return 0, err
	}
	if d.k == 0 {
		return 0, nil
	}

	return d.s[0], nil
}

// Sweeps returns the number of Jacobi sweeps the last Decompose used.
func (d *SVD) Sweeps() int { return d.sweeps }

// Tolerance returns the zero threshold used by the last Decompose.
func (d *SVD) Tolerance() float64 { return d.tol }
