package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/dol"
)

func newTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.engine()
			if err != nil {
				return err
			}
			defer eng.Close()

			tv, err := dol.NewTablesView(ctx, eng)
			if err != nil {
				return err
			}

			names, err := dol.Collect(tv.Keys(ctx))
			if err != nil {
				return err
			}
			if a.json() {
				return writeJSON(cmd.OutOrStdout(), names)
			}

			rows := make([][]string, len(names))
			for i, name := range names {
				t, err := tv.Get(ctx, name)
				if err != nil {
					return err
				}
				pk := ""
				if t.PrimaryKey != nil {
					pk = strings.Join(t.PrimaryKey.Columns, ", ")
				}
				rows[i] = []string{name, fmt.Sprint(len(t.Columns)), pk}
			}
			return ui.PrintTable(cmd.OutOrStdout(), []string{"table", "columns", "primary key"}, rows)
		},
	}
}
