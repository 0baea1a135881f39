// SPDX-License-Identifier: MIT

// Householder QR decomposition.
//
// Purpose:
//   - Factor any m×n A as A = Q·R with orthogonal Q (m×m) and upper
//     trapezoidal R (m×n).
//   - Solve full-column-rank systems (m ≥ n): exactly for square A, in the
//     least-squares sense for tall A.
//
// Storage (compact Householder form):
//   - qr holds the Householder vectors on and below the diagonal and the
//     strictly-upper part of R above it, m×n row-major.
//   - rDiag holds R's diagonal, length min(m,n).

package decomp

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/lvsolve/matrix"
)

const (
	opQRDecompose = "QR.Decompose"
	opQRSolve     = "QR.Solve"
	opQRSolveVec  = "QR.SolveVec"
	opQRFactor    = "QR.Factor"
)

// QR is a Householder QR decomposition engine. Construct with NewQR.
type QR struct {
	facade
	qr       []float64 // packed Householder vectors + R, m×n row-major
	rDiag    []float64 // diag(R), length min(m,n)
	singular bool      // m < n, or some |r(k,k)| ≤ tol
	tol      float64
}

// NewQR returns an Undecomposed QR engine.
func NewQR(opts ...Option) *QR {
	return &QR{facade: newFacade(AlgorithmQR, opts...)}
}

// Decompose factors a (any m×n) with Householder reflections.
//
// Implementation:
//   - Stage 1: discard prior state; ingest a.
//   - Stage 2: factorQR over k < min(m,n).
//   - Stage 3: tol = zeroTolerance(m, n, max|r(k,k)|); singular when m < n
//     or some |r(k,k)| ≤ tol.
//
// Errors:
//   - ErrInvalidMatrix (nil, NaN/Inf).
//
// Complexity:
//   - Time O(m·n·min(m,n)), Space O(m·n).
func (d *QR) Decompose(a matrix.Matrix) error {
	d.reset()
	d.qr, d.rDiag, d.singular, d.tol = nil, nil, false, 0

	data, m, n, err := d.ingest(opQRDecompose, a)
	if err != nil {
		return err
	}

	d.rDiag = factorQR(data, m, n)
	d.qr = data
	d.tol = zeroTolerance(d.opts, m, n, matrix.VecMaxAbs(d.rDiag))
	d.singular = qrSingular(m, n, d.rDiag, d.tol)
	d.markDecomposed(m, n)
	d.logDecomposed("decomposed",
		slog.Bool("singular", d.singular),
		slog.Float64("tolerance", d.tol))

	return nil
}

// factorQR reduces qr (m×n, row-major) in place and returns diag(R).
//
// Implementation:
//   - For each k < min(m,n): nrm = ‖qr[k:, k]‖₂ (signed like qr(k,k) to avoid
//     cancellation); scale the column into v with v_k = 1 + |x_k|/nrm;
//     apply H = I − v·vᵀ/v_k to the trailing columns; r(k,k) = −nrm.
//   - A zero column leaves v = 0 (H = I) and r(k,k) = 0.
func factorQR(qr []float64, m, n int) []float64 {
	p := min(m, n)
	rDiag := make([]float64, p)

	col := make([]float64, m)
	var (
		i, j, k    int
		nrm, s, vk float64
	)
	for k = 0; k < p; k++ {
		for i = k; i < m; i++ {
			col[i-k] = qr[i*n+k]
		}
		nrm = matrix.VecNorm2(col[:m-k])
		if nrm != 0 {
			if qr[k*n+k] < 0 {
				nrm = -nrm
			}
			for i = k; i < m; i++ {
				qr[i*n+k] /= nrm
			}
			qr[k*n+k]++
			vk = qr[k*n+k]
			for j = k + 1; j < n; j++ {
				s = 0
				for i = k; i < m; i++ {
					s += qr[i*n+k] * qr[i*n+j]
				}
				s = -s / vk
				for i = k; i < m; i++ {
					qr[i*n+j] += s * qr[i*n+k]
				}
			}
		}
		rDiag[k] = -nrm
	}

	return rDiag
}

// qrSingular reports rank deficiency: a wide shape or a tiny R diagonal.
func qrSingular(m, n int, rDiag []float64, tol float64) bool {
	if m < n {
		return true
	}
	for _, r := range rDiag {
		if math.Abs(r) <= tol {
			return true
		}
	}

	return false
}

// SolveVec solves A·x = b exactly (square) or in least squares (tall).
// Errors: ErrNotDecomposed, ErrDimensionMismatch, ErrSingular.
// Complexity: O(m·n).
func (d *QR) SolveVec(b []float64) ([]float64, error) {
	if err := d.checkVec(opQRSolveVec, b); err != nil {
		return nil, err
	}
	if d.singular {
		return nil, singularErr(opQRSolveVec)
	}

	return d.solveVec(b), nil
}

// Solve solves A·X = B column by column.
// Errors: ErrNotDecomposed, ErrDimensionMismatch, ErrSingular.
func (d *QR) Solve(b matrix.Matrix) (matrix.Matrix, error) {
	if err := d.checkMatrix(opQRSolve, b); err != nil {
		return nil, err
	}
	if d.singular {
		return nil, singularErr(opQRSolve)
	}

	return d.solveColumns(opQRSolve, b, d.solveVec)
}

// solveVec computes y = Qᵀ·b, then back-substitutes R[:n,:n]·x = y[:n].
// Requires m ≥ n and a non-zero rDiag; reads engine state only.
func (d *QR) solveVec(b []float64) []float64 {
	m, n := d.rows, d.cols
	y := append([]float64(nil), b...)
	var i, k int
	var s float64
	for k = 0; k < n; k++ {
		s = 0
		for i = k; i < m; i++ {
			s += d.qr[i*n+k] * y[i]
		}
		s = -s / d.qr[k*n+k]
		for i = k; i < m; i++ {
			y[i] += s * d.qr[i*n+k]
		}
	}

	x := y[:n:n]
	for k = n - 1; k >= 0; k-- {
		x[k] /= d.rDiag[k]
		for i = 0; i < k; i++ {
			x[i] -= x[k] * d.qr[i*n+k]
		}
	}

	return append([]float64(nil), x...)
}

// IsNonSingular reports full column rank (m ≥ n and every |r(k,k)| > tol).
func (d *QR) IsNonSingular() (bool, error) {
	if err := d.checkState(opQRFactor); err != nil {
		return false, err
	}

	return !d.singular, nil
}

// Q returns the full m×m orthogonal factor, accumulated backwards from the
// stored reflectors: Q = H₀·H₁·…·H_{p−1}·I.
func (d *QR) Q() (matrix.Matrix, error) {
	if err := d.checkState(opQRFactor); err != nil {
		return nil, err
	}
	m, n := d.rows, d.cols
	q := make([]float64, m*m)
	for i := 0; i < m; i++ {
		q[i*m+i] = 1
	}
	var i, j int
	var s, vk float64
	for k := len(d.rDiag) - 1; k >= 0; k-- {
		vk = d.qr[k*n+k]
		if vk == 0 {
			continue
		}
		for j = k; j < m; j++ {
			s = 0
			for i = k; i < m; i++ {
				s += d.qr[i*n+k] * q[i*m+j]
			}
			s = -s / vk
			for i = k; i < m; i++ {
				q[i*m+j] += s * d.qr[i*n+k]
			}
		}
	}

	return denseOf(opQRFactor, m, m, q)
}

// R returns the m×n upper-trapezoidal factor.
func (d *QR) R() (matrix.Matrix, error) {
	if err := d.checkState(opQRFactor); err != nil {
		return nil, err
	}
	m, n := d.rows, d.cols
	r := make([]float64, m*n)
	for i := range d.rDiag {
		r[i*n+i] = d.rDiag[i]
		copy(r[i*n+i+1:(i+1)*n], d.qr[i*n+i+1:(i+1)*n])
	}

	return denseOf(opQRFactor, m, n, r)
}

// H returns the Householder vectors as the columns of an m×min(m,n) lower
// trapezoidal matrix.
func (d *QR) H() (matrix.Matrix, error) {
	if err := d.checkState(opQRFactor); err != nil {
		return nil, err
	}
	m, n := d.rows, d.cols
	p := len(d.rDiag)
	h := make([]float64, m*p)
	for i := 0; i < m; i++ {
		for k := 0; k <= i && k < p; k++ {
			h[i*p+k] = d.qr[i*n+k]
		}
	}

	return denseOf(opQRFactor, m, p, h)
}

// Tolerance returns the zero threshold used by the last Decompose.
func (d *QR) Tolerance() float64 { return d.tol }
