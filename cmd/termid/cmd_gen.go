package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termgraph/termid/binding"
)

func genCmd(a *app) *cobra.Command {
	var (
		tablePath string
		outPath   string
		pkg       string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate typed Go bindings from a binding table",
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if tablePath != "" {
				paths = []string{tablePath}
			}
			table, err := a.table(paths)
			if err != nil {
				return fmt.Errorf("gen: %w", err)
			}
			opts, err := a.validateOptions()
			if err != nil {
				return fmt.Errorf("gen: %w", err)
			}

			src, err := binding.Generate(table, binding.GenerateOptions{Package: pkg}, opts...)
			if err != nil {
				return fmt.Errorf("gen: %w", err)
			}

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(outPath, src, 0o644); err != nil {
				return fmt.Errorf("gen: %w", err)
			}
			a.logger.Info("bindings generated", "out", outPath, "entries", len(table.Entries), "version", table.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&tablePath, "table-file", "", "binding table to generate from (default: embedded bindings)")
	cmd.Flags().StringVar(&outPath, "out", "-", "output file, or - for stdout")
	cmd.Flags().StringVar(&pkg, "package", "terms", "package name of the generated file")
	return cmd
}
