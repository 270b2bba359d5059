package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/termgraph/termid"
	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/registry"
	"github.com/termgraph/termid/serve"
)

func resolveCmd(a *app) *cobra.Command {
	var (
		kindName string
		remote   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "resolve UUID",
		Short: "Resolve an alias UUID to its component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("resolve: invalid uuid %q: %w", args[0], err)
			}
			kinds := component.Kinds
			if kindName != "" {
				kind, err := component.ParseKind(kindName)
				if err != nil {
					return fmt.Errorf("resolve: %w", err)
				}
				kinds = []component.Kind{kind}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			lookup, closeFn, err := a.resolver(ctx, remote)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			defer closeFn()

			found := 0
			for _, kind := range kinds {
				entry, err := lookup(ctx, component.Key{Kind: kind, UUID: u})
				if err != nil {
					if isNotFound(err) {
						continue
					}
					return fmt.Errorf("resolve: %w", err)
				}
				printEntry(cmd.OutOrStdout(), entry)
				found++
			}
			if found == 0 {
				return fmt.Errorf("resolve: %w: %s", registry.ErrNotFound, u)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "concept or pattern (default: both)")
	cmd.Flags().StringVar(&remote, "remote", "", "resolve against a termid server at this address instead of locally")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall timeout")
	return cmd
}

type lookupFunc func(context.Context, component.Key) (registry.Entry, error)

// resolver returns a local catalog lookup, or a gRPC one when remote is set.
func (a *app) resolver(ctx context.Context, remote string) (lookupFunc, func(), error) {
	if remote != "" {
		client, err := serve.Dial(remote)
		if err != nil {
			return nil, nil, err
		}
		lookup := func(ctx context.Context, key component.Key) (registry.Entry, error) {
			return client.Resolve(ctx, key.Kind, key.UUID)
		}
		return lookup, func() { termid.CloseWithLog(client, a.logger, "resolver client") }, nil
	}

	cat, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	lookup := func(_ context.Context, key component.Key) (registry.Entry, error) {
		return cat.Resolve(key)
	}
	return lookup, func() { termid.CloseWithLog(cat, a.logger, "catalog") }, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, registry.ErrNotFound)
}

func printEntry(w io.Writer, e registry.Entry) {
	fmt.Fprintf(w, "nid:     %d\n", e.NID)
	fmt.Fprintf(w, "kind:    %s\n", e.Ref.Kind())
	fmt.Fprintf(w, "label:   %s\n", e.Ref.Label())
	fmt.Fprintf(w, "primary: %s\n", e.Ref.Primary())
	for _, alias := range e.Ref.UUIDs()[1:] {
		fmt.Fprintf(w, "alias:   %s\n", alias)
	}
}
