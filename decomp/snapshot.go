// SPDX-License-Identifier: MIT

// Explicit factorization snapshots.
//
// Purpose:
//   - Let a caller persist a factorization and reload it without paying for
//     Decompose again (Snapshot / Restore on every engine).
//   - Encode snapshots as YAML (WriteSnapshot / ReadSnapshot).
//
// Contract:
//   - Snapshot() deep-copies; later engine changes never leak into it.
//   - Restore validates version, algorithm, shape, buffer lengths and
//     finiteness, and cross-checks the stored singular flag / rank against
//     the stored factors and tolerance. Any violation → ErrInvalidSnapshot
//     and the engine is left Undecomposed.

package decomp

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the only snapshot layout this package reads and writes.
const SnapshotVersion = 1

// Factor names used in Snapshot.Factors.
const (
	FactorLU    = "lu"
	FactorQR    = "qr"
	FactorRDiag = "rdiag"
	FactorU     = "u"
	FactorS     = "s"
	FactorV     = "v"
)

const (
	opSnapshot = "Snapshot"
	opRestore  = "Restore"
	opWrite    = "WriteSnapshot"
	opRead     = "ReadSnapshot"
)

// Snapshot is a self-describing copy of one factorization.
type Snapshot struct {
	Version   int                  `yaml:"version"`
	Algorithm Algorithm            `yaml:"algorithm"`
	Rows      int                  `yaml:"rows"`
	Cols      int                  `yaml:"cols"`
	Singular  bool                 `yaml:"singular"`
	Rank      int                  `yaml:"rank,omitempty"`
	Sign      int                  `yaml:"sign,omitempty"`
	Tolerance float64              `yaml:"tolerance"`
	Pivot     []int                `yaml:"pivot,omitempty,flow"`
	Factors   map[string][]float64 `yaml:"factors"`
}

// snapshotErr wraps a reason under ErrInvalidSnapshot.
func snapshotErr(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}

// header checks the fields every variant shares.
func (s *Snapshot) header(op string, alg Algorithm) error {
	switch {
	case s == nil:
		return snapshotErr(op, "nil snapshot")
	case s.Version != SnapshotVersion:
		return snapshotErr(op, "version %d, want %d", s.Version, SnapshotVersion)
	case s.Algorithm != alg:
		return snapshotErr(op, "algorithm %q, want %q", s.Algorithm, alg)
	case s.Rows <= 0 || s.Cols <= 0:
		return snapshotErr(op, "shape %dx%d", s.Rows, s.Cols)
	case math.IsNaN(s.Tolerance) || math.IsInf(s.Tolerance, 0) || s.Tolerance < 0:
		return snapshotErr(op, "tolerance %v", s.Tolerance)
	}

	return nil
}

// factor returns Factors[name] after checking its length and finiteness.
func (s *Snapshot) factor(op, name string, want int) ([]float64, error) {
	f, ok := s.Factors[name]
	if !ok {
		return nil, snapshotErr(op, "missing factor %q", name)
	}
	if len(f) != want {
		return nil, snapshotErr(op, "factor %q has %d values, want %d", name, len(f), want)
	}
	for i, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, snapshotErr(op, "factor %q[%d] is %v", name, i, v)
		}
	}

	return append([]float64(nil), f...), nil
}

// Snapshot implements DecompositionSolver.
func (d *LU) Snapshot() (*Snapshot, error) {
	if err := d.checkState(opSnapshot); err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:   SnapshotVersion,
		Algorithm: d.alg,
		Rows:      d.rows,
		Cols:      d.cols,
		Singular:  d.singular,
		Sign:      d.sign,
		Tolerance: d.tol,
		Pivot:     append([]int(nil), d.pivot...),
		Factors:   map[string][]float64{FactorLU: append([]float64(nil), d.lu...)},
	}, nil
}

// Restore implements DecompositionSolver.
func (d *LU) Restore(s *Snapshot) error {
	d.reset()
	d.lu, d.pivot, d.sign, d.singular, d.tol = nil, nil, 0, false, 0

	if err := s.header(opRestore, AlgorithmLU); err != nil {
		return err
	}
	n := s.Rows
	if s.Cols != n {
		return snapshotErr(opRestore, "LU shape %dx%d is not square", s.Rows, s.Cols)
	}
	if s.Sign != 1 && s.Sign != -1 {
		return snapshotErr(opRestore, "sign %d", s.Sign)
	}
	if err := checkPermutation(s.Pivot, n); err != nil {
		return err
	}
	if parity := permutationSign(s.Pivot); parity != s.Sign {
		return snapshotErr(opRestore, "sign %d disagrees with pivot parity %d", s.Sign, parity)
	}
	lu, err := s.factor(opRestore, FactorLU, n*n)
	if err != nil {
		return err
	}
	singular := false
	for k := 0; k < n; k++ {
		if math.Abs(lu[k*n+k]) <= s.Tolerance {
			singular = true
			break
		}
	}
	if singular != s.Singular {
		return snapshotErr(opRestore, "singular flag %t disagrees with factors", s.Singular)
	}

	d.lu, d.pivot, d.sign, d.singular, d.tol = lu, append([]int(nil), s.Pivot...), s.Sign, singular, s.Tolerance
	d.markDecomposed(n, n)
	d.logDecomposed("restored", slog.Bool("singular", singular))

	return nil
}

// checkPermutation verifies p is a permutation of 0..n-1.
func checkPermutation(p []int, n int) error {
	if len(p) != n {
		return snapshotErr(opRestore, "pivot has %d entries, want %d", len(p), n)
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return snapshotErr(opRestore, "pivot %v is not a permutation", p)
		}
		seen[v] = true
	}

	return nil
}

// permutationSign returns +1 for an even permutation p and -1 for an odd one.
// p must already be a valid permutation.
func permutationSign(p []int) int {
	seen := make([]bool, len(p))
	sign := 1
	for i := range p {
		if seen[i] {
			continue
		}
		// A cycle of length L contributes L-1 transpositions.
		for j := i; !seen[j]; j = p[j] {
			seen[j] = true
			if j != i {
				sign = -sign
			}
		}
	}

	return sign
}

// Snapshot implements DecompositionSolver.
func (d *QR) Snapshot() (*Snapshot, error) {
	if err := d.checkState(opSnapshot); err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:   SnapshotVersion,
		Algorithm: d.alg,
		Rows:      d.rows,
		Cols:      d.cols,
		Singular:  d.singular,
		Tolerance: d.tol,
		Factors: map[string][]float64{
			FactorQR:    append([]float64(nil), d.qr...),
			FactorRDiag: append([]float64(nil), d.rDiag...),
		},
	}, nil
}

// Restore implements DecompositionSolver.
func (d *QR) Restore(s *Snapshot) error {
	d.reset()
	d.qr, d.rDiag, d.singular, d.tol = nil, nil, false, 0

	if err := s.header(opRestore, AlgorithmQR); err != nil {
		return err
	}
	m, n := s.Rows, s.Cols
	qr, err := s.factor(opRestore, FactorQR, m*n)
	if err != nil {
		return err
	}
	rDiag, err := s.factor(opRestore, FactorRDiag, min(m, n))
	if err != nil {
		return err
	}
	singular := qrSingular(m, n, rDiag, s.Tolerance)
	if singular != s.Singular {
		return snapshotErr(opRestore, "singular flag %t disagrees with factors", s.Singular)
	}
	if err = checkReflectors(qr, rDiag, n); err != nil {
		return err
	}

	d.qr, d.rDiag, d.singular, d.tol = qr, rDiag, singular, s.Tolerance
	d.markDecomposed(m, n)
	d.logDecomposed("restored", slog.Bool("singular", singular))

	return nil
}

// checkReflectors verifies the leading entry of every non-trivial Householder
// vector. factorQR stores v_k = 1 + |x_k|/‖x‖ there, which lies in [1, 2];
// solves divide by it.
func checkReflectors(qr, rDiag []float64, n int) error {
	upper := 2 * (1 + 4*machEps)
	for k, r := range rDiag {
		if r == 0 {
			continue
		}
		if v := qr[k*n+k]; !(v >= 1 && v <= upper) {
			return snapshotErr(opRestore, "reflector %d has leading entry %g, want [1, 2]", k, v)
		}
	}

	return nil
}

// Snapshot implements DecompositionSolver.
func (d *SVD) Snapshot() (*Snapshot, error) {
	if err := d.checkState(opSnapshot); err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:   SnapshotVersion,
		Algorithm: d.alg,
		Rows:      d.rows,
		Cols:      d.cols,
		Singular:  d.rows != d.cols || d.rank < d.cols,
		Rank:      d.rank,
		Tolerance: d.tol,
		Factors: map[string][]float64{
			FactorU: append([]float64(nil), d.u...),
			FactorS: append([]float64(nil), d.s...),
			FactorV: append([]float64(nil), d.v...),
		},
	}, nil
}

// Restore implements DecompositionSolver.
func (d *SVD) Restore(s *Snapshot) error {
	d.reset()
	d.u, d.s, d.v, d.k, d.rank, d.tol, d.sweeps = nil, nil, nil, 0, 0, 0, 0

	if err := s.header(opRestore, AlgorithmSVD); err != nil {
		return err
	}
	m, n := s.Rows, s.Cols
	k := min(m, n)
	u, err := s.factor(opRestore, FactorU, m*k)
	if err != nil {
		return err
	}
	sv, err := s.factor(opRestore, FactorS, k)
	if err != nil {
		return err
	}
	v, err := s.factor(opRestore, FactorV, n*k)
	if err != nil {
		return err
	}
	for i, x := range sv {
		if x < 0 || (i > 0 && x > sv[i-1]) {
			return snapshotErr(opRestore, "singular values %v are not descending and non-negative", sv)
		}
	}
	rank := rankOf(sv, s.Tolerance)
	if rank != s.Rank {
		return snapshotErr(opRestore, "rank %d disagrees with singular values (%d)", s.Rank, rank)
	}

	d.u, d.s, d.v, d.k, d.rank, d.tol = u, sv, v, k, rank, s.Tolerance
	d.markDecomposed(m, n)
	d.logDecomposed("restored", slog.Int("rank", rank))

	return nil
}

// WriteSnapshot encodes s as YAML (2-space indent) to w.
// Errors: ErrInvalidSnapshot (nil or unknown version), I/O errors from w.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	if s == nil {
		return snapshotErr(opWrite, "nil snapshot")
	}
	if s.Version != SnapshotVersion {
		return snapshotErr(opWrite, "version %d, want %d", s.Version, SnapshotVersion)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return decompErrorf(opWrite, err)
	}
	if err := enc.Close(); err != nil {
		return decompErrorf(opWrite, err)
	}

	return nil
}

// ReadSnapshot decodes one YAML snapshot from r. Structural validation
// against an engine happens in Restore; here only the version is checked.
// Errors: ErrInvalidSnapshot (malformed YAML or unknown version).
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opRead, ErrInvalidSnapshot, err)
	}
	if s.Version != SnapshotVersion {
		return nil, snapshotErr(opRead, "version %d, want %d", s.Version, SnapshotVersion)
	}

	return &s, nil
}
