// Package commands implements the sqldol CLI.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/config"
	"github.com/satishbabariya/sqldol/cli/internal/version"
	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/internal/debug"
)

var errNoURL = errors.New("no database URL: pass --url, set url in .sqldol.yaml, or set DATABASE_URL")

// app is the state shared by every subcommand.
type app struct {
	url        string
	configFile string
	output     string
	debug      bool

	cfg *config.Config
}

// NewRootCommand creates the sqldol command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "sqldol",
		Short: "Browse SQL tables as key/value mappings",
		Long: `sqldol reads relational tables as mappings: table names to tables,
column names to column values, and key column values to matching rows.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.url, "url", "", "database URL (overrides config and DATABASE_URL)")
	flags.StringVar(&a.configFile, "config", "", "config file (default .sqldol.yaml)")
	flags.StringVarP(&a.output, "output", "o", "", "output format: table or json")
	flags.BoolVar(&a.debug, "debug", false, "log queries to stderr")

	cmd.AddCommand(
		newTablesCommand(a),
		newColumnsCommand(a),
		newDescribeCommand(a),
		newCountCommand(a),
		newValuesCommand(a),
		newGetCommand(a),
		newItemsCommand(a),
		newExportCommand(a),
		newWatchCommand(a),
		newInfoCommand(a),
		newInitCommand(a),
		newVersionCommand(a),
	)

	return cmd
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.url != "" {
		cfg.DatabaseURL = a.url
	}
	if a.output != "" {
		cfg.Output = a.output
	}
	if a.debug {
		cfg.Debug = true
	}
	if cfg.Output != "table" && cfg.Output != "json" {
		return fmt.Errorf("unknown output format %q", cfg.Output)
	}

	debug.InitWriter(cfg.Debug, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

// engine opens the configured database. The caller closes it.
func (a *app) engine() (*engine.Engine, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, errNoURL
	}
	return engine.OpenWithConfig(a.cfg.DatabaseURL, a.cfg.Pool)
}

func (a *app) json() bool {
	return a.cfg.Output == "json"
}
