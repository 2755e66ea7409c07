// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/geosparse/matstore"
)

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the matrix store",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored matrices with their shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s *matstore.Store) error {
				names, err := s.List()
				if err != nil {
					return err
				}
				for _, name := range names {
					m, err := s.Get(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dx%d\tnnz=%d\t%s\n",
						name, m.Rows(), m.Cols(), m.NNZ(), m.Symmetry())
				}
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete stored matrices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *matstore.Store) error {
				for _, name := range args {
					if err := s.Delete(name); err != nil {
						return err
					}
					a.log.Info("deleted", "name", name)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(list, del)

	return cmd
}
