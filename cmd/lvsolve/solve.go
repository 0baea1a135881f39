// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/katalvlaran/lvsolve/decomp"
	"github.com/katalvlaran/lvsolve/matrix"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errShapeMismatch = errors.New("solve: a does not match the snapshot shape")

// solveFlags are the command-line flags of "lvsolve solve".
type solveFlags struct {
	file         string
	algorithm    string
	threshold    float64
	saveSnapshot string
	snapshot     string

	algorithmSet bool
	thresholdSet bool
}

// result is the YAML document printed by "lvsolve solve".
type result struct {
	Algorithm   decomp.Algorithm `yaml:"algorithm"`
	Rows        int              `yaml:"rows"`
	Cols        int              `yaml:"cols"`
	NonSingular bool             `yaml:"non_singular"`
	X           any              `yaml:"x,flow"`
	Residual    *float64         `yaml:"residual,omitempty"`
}

func newSolveCmd(a *app) *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Decompose A (or restore a snapshot) and solve A·X = B",
		Long: `Reads a YAML system file with keys a (matrix), and rhs (vector) or b (matrix),
decomposes a with the selected algorithm and prints X with the residual ‖A·X − B‖.

With --snapshot the factorization is restored from a file written by
--save-snapshot; a is then optional and only used for the residual.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.algorithmSet = cmd.Flags().Changed("algorithm")
			f.thresholdSet = cmd.Flags().Changed("threshold")
			return a.runSolve(f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "YAML system file (required)")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "decomposition: lu, qr or svd (default $LVSOLVE_ALGORITHM or lu)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "absolute singularity threshold; 0 selects the relative policy")
	cmd.Flags().StringVar(&f.saveSnapshot, "save-snapshot", "", "write the factorization to this YAML file")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "restore the factorization from this YAML file instead of decomposing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runSolve executes one solve request.
// Implementation:
//   - Stage 1: load the system; resolve algorithm and threshold (flag > env).
//   - Stage 2: restore the snapshot (warning that a threshold does not apply)
//     or decompose A.
//   - Stage 3: solve, print the result, optionally save the snapshot.
func (a *app) runSolve(f solveFlags) error {
	sys, err := loadSystem(f.file)
	if err != nil {
		return err
	}
	matA, err := sys.matrixA()
	if err != nil {
		return err
	}
	matB, err := sys.matrixB()
	if err != nil {
		return err
	}

	algName, threshold := a.cfg.Algorithm, a.cfg.Threshold
	if f.algorithmSet {
		algName = f.algorithm
	}
	if f.thresholdSet {
		threshold = f.threshold
	}
	if threshold < 0 {
		return fmt.Errorf("--threshold must be >= 0, got %v", threshold)
	}

	var snap *decomp.Snapshot
	if f.snapshot != "" {
		if snap, err = readSnapshotFile(f.snapshot); err != nil {
			return err
		}
		if !f.algorithmSet {
			algName = snap.Algorithm.String()
		}
		if threshold > 0 {
			a.logger.Warn("threshold ignored: a restored factorization keeps its stored tolerance",
				slog.Float64("threshold", threshold),
				slog.Float64("tolerance", snap.Tolerance))
			threshold = 0
		}
	}

	alg, err := decomp.ParseAlgorithm(algName)
	if err != nil {
		return err
	}
	opts := []decomp.Option{decomp.WithLogger(a.logger)}
	if threshold > 0 {
		opts = append(opts, decomp.WithSingularityThreshold(threshold))
	}
	s, err := decomp.New(alg, opts...)
	if err != nil {
		return err
	}

	switch {
	case snap != nil:
		if err = s.Restore(snap); err != nil {
			return err
		}
		if matA != nil && (matA.Rows() != snap.Rows || matA.Cols() != snap.Cols) {
			return fmt.Errorf("%w: a is %dx%d, snapshot %dx%d", errShapeMismatch, matA.Rows(), matA.Cols(), snap.Rows, snap.Cols)
		}
	case matA == nil:
		return errNoMatrix
	default:
		if err = s.Decompose(matA); err != nil {
			return err
		}
	}

	res, err := solveSystem(s, sys, matA, matB)
	if err != nil {
		return err
	}
	attrs := []any{slog.String("algorithm", alg.String()), slog.Int("rows", res.Rows), slog.Int("cols", res.Cols)}
	if res.Residual != nil {
		attrs = append(attrs, slog.Float64("residual", *res.Residual))
	}
	a.logger.Info("solved", attrs...)

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err = enc.Encode(res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if f.saveSnapshot != "" {
		if err = writeSnapshotFile(s, f.saveSnapshot); err != nil {
			return err
		}
		a.logger.Info("snapshot saved", slog.String("path", f.saveSnapshot))
	}

	return nil
}

// solveSystem solves for the vector or matrix right-hand side of sys and
// measures the residual when A is known.
func solveSystem(s decomp.DecompositionSolver, sys *system, matA, matB *matrix.Dense) (*result, error) {
	rows, cols := s.Dims()
	nonSingular, err := s.IsNonSingular()
	if err != nil {
		return nil, err
	}
	res := &result{Algorithm: s.Algorithm(), Rows: rows, Cols: cols, NonSingular: nonSingular}

	var x matrix.Matrix
	if matB != nil {
		if x, err = s.Solve(matB); err != nil {
			return nil, err
		}
		if res.X, err = denseRows(x); err != nil {
			return nil, err
		}
	} else {
		xv, err := s.SolveVec(sys.RHS)
		if err != nil {
			return nil, err
		}
		res.X = xv
		if x, err = matrix.NewDenseData(len(xv), 1, xv); err != nil {
			return nil, err
		}
		if matB, err = matrix.NewDenseData(len(sys.RHS), 1, sys.RHS); err != nil {
			return nil, err
		}
	}

	if matA != nil {
		r, err := matrix.Residual(matA, x, matB)
		if err != nil {
			return nil, err
		}
		res.Residual = &r
	}

	return res, nil
}

// denseRows returns m as row slices.
func denseRows(m matrix.Matrix) ([][]float64, error) {
	data, err := matrix.Flatten(m)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Rows(), m.Cols()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}

	return out, nil
}

func readSnapshotFile(path string) (*decomp.Snapshot, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer fh.Close()

	return decomp.ReadSnapshot(fh)
}

func writeSnapshotFile(s decomp.DecompositionSolver, path string) (err error) {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close snapshot: %w", cerr)
		}
	}()

	return decomp.WriteSnapshot(fh, snap)
}
