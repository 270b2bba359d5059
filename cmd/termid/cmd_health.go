package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/termgraph/termid/health"
	"github.com/termgraph/termid/registry"
)

var errUnhealthy = errors.New("unhealthy")

func healthCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "health [PATH...]",
		Short: "Check configured tables and mirrors",
		Long:  "Validates each table and lists each configured mirror, then prints the combined status as JSON. Exits non-zero when any check fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := a.validateOptions()
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}

			var checks []health.Status
			for _, p := range append(append([]string{}, a.cfg.Tables...), args...) {
				checks = append(checks, health.TableCheck(p, opts...))
			}

			if a.cfg.Redis != nil {
				checks = append(checks, mirrorCheck(cmd, "redis", func() (registry.Mirror, error) {
					return registry.NewRedisMirror(a.cfg.Redis.Options())
				}))
			}
			if a.cfg.Etcd != nil {
				for _, ep := range a.cfg.Etcd.Endpoints {
					checks = append(checks, health.NetworkCheck(ctx, hostPort(ep)))
				}
				checks = append(checks, mirrorCheck(cmd, "etcd", func() (registry.Mirror, error) {
					return registry.NewEtcdMirror(a.cfg.Etcd.Options())
				}))
			}

			status := health.Combine(checks...)
			out := map[string]any{"status": status}
			if verbose {
				out["checks"] = checks
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("health: %w", err)
			}
			if status.IsUnhealthy() {
				return fmt.Errorf("health: %w: %s", errUnhealthy, status.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include every individual check")
	return cmd
}

func mirrorCheck(cmd *cobra.Command, name string, connect func() (registry.Mirror, error)) health.Status {
	m, err := connect()
	if err != nil {
		return health.Unhealthy(
			fmt.Sprintf("failed to connect mirror '%s'", name),
			map[string]any{"mirror": name, "error": err.Error()},
		)
	}
	defer m.Close()
	return health.MirrorCheck(cmd.Context(), name, m)
}

// hostPort strips the URL scheme etcd endpoints are usually written with.
func hostPort(endpoint string) string {
	for _, scheme := range []string{"http://", "https://", "unix://"} {
		endpoint = strings.TrimPrefix(endpoint, scheme)
	}
	return strings.TrimSuffix(endpoint, "/")
}
