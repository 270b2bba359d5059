package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/termgraph/termid/id"
)

func deriveCmd(a *app) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "derive NAME...",
		Short: "Print the name-based UUID of each NAME",
		Long:  "Names are hashed exactly as given: case and surrounding whitespace matter.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.cfg.GetNamespace()
			if err != nil {
				return fmt.Errorf("derive: %w", err)
			}
			gen := id.NewGenerator(ns)
			if namespace != "" {
				ns, err := uuid.Parse(namespace)
				if err != nil {
					return fmt.Errorf("derive: namespace: %w", err)
				}
				gen = id.NewGenerator(ns)
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				fmt.Fprintf(out, "%s\t%s\n", gen.Derive(name), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "derive in this namespace instead of the configured one")
	return cmd
}
