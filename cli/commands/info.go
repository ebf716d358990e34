package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/dol"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the server version and table count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.engine()
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.Ping(ctx); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			v, err := eng.ServerVersion(ctx)
			if err != nil {
				return err
			}
			tv, err := dol.NewTablesView(ctx, eng)
			if err != nil {
				return err
			}
			n, _ := tv.Len(ctx)

			if a.json() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"dialect": eng.Dialect(),
					"version": v.String(),
					"tables":  n,
					"config":  a.cfg.File,
				})
			}

			cfgFile := a.cfg.File
			if cfgFile == "" {
				cfgFile = "(none)"
			}
			ui.PrintKeyValues(cmd.OutOrStdout(), [][2]string{
				{"dialect", string(eng.Dialect())},
				{"server version", v.String()},
				{"tables", fmt.Sprint(n)},
				{"max open conns", fmt.Sprint(a.cfg.Pool.MaxOpenConns)},
				{"config", cfgFile},
			})
			return nil
		},
	}
}
