package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/terms"
)

// table merges the given paths, or the embedded bindings plus configured
// tables when no paths are given. The embedded bindings are left out when a
// non-default namespace is configured.
func (a *app) table(paths []string) (*binding.Table, error) {
	merged := &binding.Table{}
	if len(paths) == 0 {
		if a.cfg.Namespace == "" {
			if err := merged.Merge(terms.Table()); err != nil {
				return nil, err
			}
		}
		paths = a.cfg.Tables
	}
	for _, p := range paths {
		t, err := binding.Load(p)
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(t); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return merged, nil
}

func (a *app) validateOptions() ([]binding.ValidateOption, error) {
	ns, err := a.cfg.GetNamespace()
	if err != nil {
		return nil, err
	}
	opts := []binding.ValidateOption{
		binding.WithLogger(a.logger),
		binding.WithNamespace(ns),
	}
	if a.cfg.StrictCrossKind {
		opts = append(opts, binding.WithStrictCrossKind())
	}
	return opts, nil
}

func validateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [PATH...]",
		Short: "Validate binding tables in one pass",
		Long:  "Validates the given tables, or the embedded bindings plus configured tables when none are given. Every violation is reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.table(args)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			opts, err := a.validateOptions()
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			report, err := table.Validate(opts...)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: version %q, %d concepts, %d patterns, %d aliases\n",
				report.Version, report.Concepts, report.Patterns, report.Aliases)
			for _, f := range report.CrossKind {
				fmt.Fprintf(out, "warning: %s shared by %s and %s\n", f.UUID, f.Concept, f.Pattern)
			}
			return nil
		},
	}
	return cmd
}
