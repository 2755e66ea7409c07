// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/geosparse/cholesky"
	"github.com/katalvlaran/geosparse/matstore"
	"github.com/katalvlaran/geosparse/sparse"
)

type solveFlags struct {
	in, store string
	rhs, out  string
}

func (a *app) solveCmd() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Factorize a symmetric positive definite matrix and solve A·x = b",
		Long: `Loads A from a triplet text file (--in) or from the store (--store),
factorizes it and solves for the right-hand side in --rhs (one value per
line) or for a vector of ones. The solution is written one value per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSolve(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.in, "in", "", "triplet text matrix")
	cmd.Flags().StringVar(&f.store, "store", "", "stored matrix name")
	cmd.Flags().StringVar(&f.rhs, "rhs", "", "right-hand side file (default all ones)")
	cmd.Flags().StringVar(&f.out, "out", "", "solution file (default stdout)")
	cmd.MarkFlagsOneRequired("in", "store")
	cmd.MarkFlagsMutuallyExclusive("in", "store")

	return cmd
}

func (a *app) runSolve(cmd *cobra.Command, f solveFlags) error {
	ctx := cmd.Context()

	var (
		mtx *sparse.CRSMatrix[float64]
		err error
	)
	if f.store != "" {
		err = a.withStore(func(s *matstore.Store) error {
			mtx, err = s.Get(f.store, a.matrixOptions()...)
			return err
		})
	} else {
		mtx, err = a.loadCompressed(ctx, f.in)
	}
	if err != nil {
		return err
	}
	if half := oneTriangle(mtx); half != sparse.Full {
		return fmt.Errorf("solve: full matrix stores only its %s triangle; set assembly.symmetry: %s: %w",
			half, half, sparse.ErrOutsideTriangle)
	}

	var e *cholesky.Engine
	err = a.stage(ctx, "factorize", func(_ context.Context, span trace.Span) error {
		var err error
		e, err = cholesky.New(mtx, a.engineOptions()...)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("dim", e.Dim()), attribute.Int("nnz", e.NNZ()),
			attribute.String("state", e.State().String()))
		return nil
	})
	if err != nil {
		return err
	}
	defer e.Close()
	if !e.Available() {
		return fmt.Errorf("solve: %w (built without a direct solver?)", cholesky.ErrUnavailable)
	}

	b, err := readVector(f.rhs, e.Dim())
	if err != nil {
		return err
	}
	x := make([]float64, e.Dim())
	if err := a.stage(ctx, "solve", func(context.Context, trace.Span) error { return e.Solve(b, x) }); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		defer file.Close()
		w = file
	}
	if err := writeVector(w, x); err != nil {
		return err
	}

	return e.Close()
}

// oneTriangle reports Lower or Upper when a Full matrix has off-diagonal
// entries on one side of the diagonal only, and Full otherwise.
func oneTriangle(m *sparse.CRSMatrix[float64]) sparse.Symmetry {
	if m.Symmetry() != sparse.Full {
		return sparse.Full
	}
	var below, above bool
	m.Do(func(r, c int, v float64) bool {
		if v != 0 {
			below = below || r > c
			above = above || r < c
		}
		return !(below && above)
	})
	switch {
	case below && !above:
		return sparse.Lower
	case above && !below:
		return sparse.Upper
	default:
		return sparse.Full
	}
}

// readVector parses one float per line from path, or returns n ones when
// path is empty.
func readVector(path string, n int) ([]float64, error) {
	if path == "" {
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		return ones, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rhs: %w", err)
	}
	defer file.Close()

	var out []float64
	sc := bufio.NewScanner(file)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("rhs %s: value %d: %w", path, len(out), err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("rhs %s: %w", path, err)
	}
	if len(out) != n {
		return nil, fmt.Errorf("rhs %s: %d values for a %d×%d system: %w", path, len(out), n, n, sparse.ErrDimensionMismatch)
	}

	return out, nil
}

func writeVector(w io.Writer, x []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range x {
		if _, err := fmt.Fprintf(bw, "%.14e\n", v); err != nil {
			return err
		}
	}

	return bw.Flush()
}
