package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/termgraph/termid/config"
	"github.com/termgraph/termid/serve"
)

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the termid.v1.Resolver gRPC API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cat, err := a.open(ctx)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer cat.Close()

			sc := a.cfg.Serve
			if sc == nil {
				sc = &config.ServeConfig{}
			}
			if cmd.Flags().Changed("port") {
				sc.Port = port
			}

			srv, err := serve.NewServer(cat.Registry(),
				serve.WithPort(sc.GetPort()),
				serve.WithGracefulShutdown(sc.GetGracefulTimeout()),
				serve.WithTLS(sc.TLSCertFile, sc.TLSKeyFile),
				serve.WithLogger(a.logger),
				serve.WithGenerator(cat.Generator()),
			)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 50051, "gRPC listen port")
	return cmd
}
