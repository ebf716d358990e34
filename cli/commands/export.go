package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/config"
	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/export"
)

func newExportCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export TABLE",
		Short: "Export a table to an Avro container file",
		Args:  cobra.ExactArgs(1),
	}
	where := whereFlag(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output file (default TABLE.avro)")

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		opts, err := where()
		if err != nil {
			return err
		}
		eng, err := a.engine()
		if err != nil {
			return err
		}
		defer eng.Close()

		tv, err := dol.NewTablesView(ctx, eng, opts...)
		if err != nil {
			return err
		}
		rows, err := tv.Rows(args[0])
		if err != nil {
			return err
		}

		if out == "" {
			out = export.AvroName(args[0]) + ".avro"
		}
		f, err := config.AppFs.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()

		n, err := export.WriteAvro(ctx, f, rows)
		if err != nil {
			return err
		}

		if a.json() {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"table": args[0], "file": out, "records": n})
		}
		ui.PrintSuccess(cmd.OutOrStdout(), "Exported %d rows of %s to %s", n, args[0], out)
		return nil
	}
	return cmd
}
