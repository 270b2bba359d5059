package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/termgraph/termid/binding"
)

func listCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bindings, optionally filtered by a CEL expression",
		Example: `  termid list --filter 'kind == "pattern"'
  termid list --filter 'size(uuids) > 1'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.table(nil)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			var f *binding.Filter
			if filter != "" {
				f, err = binding.NewFilter(filter)
				if err != nil {
					return fmt.Errorf("list: %w", err)
				}
			}

			entries, err := table.Select(f)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				ids, err := e.Identifiers()
				if err != nil {
					return fmt.Errorf("list: %s: %w", e, err)
				}
				strs := make([]string, len(ids))
				for i, u := range ids {
					strs[i] = u.String()
				}
				fmt.Fprintf(out, "%-8s %-36s %s\n", e.Kind, e.Name, strings.Join(strs, ","))
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No bindings found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "CEL expression over kind, name, label, description, uuids, derived, fields")
	return cmd
}
