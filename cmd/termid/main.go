// Command termid derives, validates, generates, and serves component
// identifiers.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/termgraph/termid"
	"github.com/termgraph/termid/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := newRootCmd()
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries state resolved by the root command for its subcommands.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "termid",
		Short:         "Stable identifiers for terminology components",
		Long:          "termid derives name-based UUIDs, validates binding tables, generates typed bindings, and resolves aliases.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to termid.yaml (file or directory)")
	flags.StringSlice("table", nil, "additional binding table file or directory (repeatable)")
	flags.Bool("strict", false, "treat UUIDs shared by a concept and a pattern as errors")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("tables", flags.Lookup("table"))
	_ = a.v.BindPFlag("strict_cross_kind", flags.Lookup("strict"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	a.v.SetEnvPrefix("TERMID")
	_ = a.v.BindEnv("config", "TERMID_CONFIG")

	rootCmd.AddCommand(
		deriveCmd(a),
		validateCmd(a),
		genCmd(a),
		listCmd(a),
		resolveCmd(a),
		serveCmd(a),
		healthCmd(a),
	)
	return rootCmd
}

// load resolves configuration: file, then TERMID_* environment, then flags.
func (a *app) load() error {
	cfg := config.Default()
	if p := a.v.GetString("config"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if tables := a.v.GetStringSlice("tables"); len(tables) > 0 {
		cfg.Tables = append(cfg.Tables, tables...)
	}
	if a.v.GetBool("strict_cross_kind") {
		cfg.StrictCrossKind = true
	}
	if cfg.Log == nil {
		cfg.Log = &config.LogConfig{}
	}
	if lvl := a.v.GetString("log.level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if f := a.v.GetString("log.format"); f != "" {
		cfg.Log.Format = f
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(os.Stderr)
	return nil
}

// open builds a catalog from the resolved configuration.
func (a *app) open(ctx context.Context, opts ...termid.Option) (*termid.Catalog, error) {
	opts = append([]termid.Option{
		termid.WithLogger(a.logger),
		termid.WithConfig(a.cfg),
	}, opts...)
	return termid.Open(ctx, opts...)
}
