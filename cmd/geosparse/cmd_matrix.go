// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/geosparse/sparse"
	"github.com/katalvlaran/geosparse/spy"
)

func (a *app) convertCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a triplet text matrix to compressed text form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			crs, err := a.loadCompressed(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err := crs.SaveFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rows=%d cols=%d nnz=%d\n", crs.Rows(), crs.Cols(), crs.NNZ())
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "triplet text input (row col value per line)")
	cmd.Flags().StringVar(&out, "out", "", "compressed text output")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// loadMap reads a triplet file under the configured symmetry tag. Text
// files carry no tag, so a matrix saved from lower or upper storage holds
// one triangle and must be read back under the same tag.
func (a *app) loadMap(path string) (*sparse.MapMatrix[float64], error) {
	sym, err := a.cfg.Assembly.SymmetryTag()
	if err != nil {
		return nil, err
	}
	m, err := sparse.LoadMapMatrixFile[float64](path, a.matrixOptions()...)
	if err != nil {
		return nil, err
	}
	if sym == sparse.Full {
		return m, nil
	}

	return m.Retag(sym)
}

// loadCompressed reads a triplet file and compresses it.
func (a *app) loadCompressed(ctx context.Context, path string) (*sparse.CRSMatrix[float64], error) {
	var crs *sparse.CRSMatrix[float64]
	err := a.stage(ctx, "load", func(_ context.Context, span trace.Span) error {
		m, err := a.loadMap(path)
		if err != nil {
			return err
		}
		crs, err = sparse.NewCRSMatrixFromMap(m)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.String("path", path), attribute.String("symmetry", crs.Symmetry().String()),
			attribute.Int("nnz", crs.NNZ()))
		return nil
	})

	return crs, err
}

func (a *app) spyCmd() *cobra.Command {
	var in, out string
	var sizeCM float64
	cmd := &cobra.Command{
		Use:   "spy",
		Short: "Plot the sparsity pattern of a triplet text matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadMap(in)
			if err != nil {
				return err
			}
			return a.stage(cmd.Context(), "spy", func(context.Context, trace.Span) error {
				return spy.Save[float64](m, out, vg.Length(sizeCM)*vg.Centimeter)
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "triplet text input")
	cmd.Flags().StringVar(&out, "out", "pattern.png", "image file; the extension selects the format")
	cmd.Flags().Float64Var(&sizeCM, "size", 12, "image edge in centimetres")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

const dropTolFlag = "drop-tol"

func (a *app) importColsCmd() *cobra.Command {
	var (
		in, out    string
		rows, cols int
		offset     int
		dropTol    float64
	)
	cmd := &cobra.Command{
		Use:   "import-cols",
		Short: "Import a binary column block into a triplet text matrix",
		Long: `Reads a little-endian block (u32 rows, u32 cols, then float64 values row
by row) and keeps entries whose magnitude exceeds --drop-tol, shifted right
by --offset columns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(dropTolFlag) {
				dropTol = a.cfg.Assembly.DropTolerance
			}
			if rows <= 0 || cols <= 0 {
				return errors.New("import-cols: --rows and --cols must be positive")
			}
			m := sparse.NewMapMatrix[float64](rows, cols, sparse.Full, a.matrixOptions()...)
			err := a.stage(cmd.Context(), "import", func(_ context.Context, span trace.Span) error {
				if err := m.ImportColumnsFile(in, dropTol, offset); err != nil {
					return err
				}
				span.SetAttributes(attribute.Int("kept", m.Len()))
				return nil
			})
			if err != nil {
				return err
			}
			if err := m.SaveFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kept=%d\n", m.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "binary column block")
	cmd.Flags().StringVar(&out, "out", "", "triplet text output")
	cmd.Flags().IntVar(&rows, "rows", 0, "rows of the target matrix")
	cmd.Flags().IntVar(&cols, "cols", 0, "columns of the target matrix")
	cmd.Flags().IntVar(&offset, "offset", 0, "column offset of the block")
	cmd.Flags().Float64Var(&dropTol, dropTolFlag, sparse.DefaultDropTolerance, "drop entries with |v| <= this")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
