package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/schema"
)

type columnInfo struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Nullable      bool    `json:"nullable"`
	Default       *string `json:"default,omitempty"`
	PrimaryKey    bool    `json:"primaryKey"`
	AutoIncrement bool    `json:"autoIncrement"`
}

func columnInfos(t *schema.Table) []columnInfo {
	out := make([]columnInfo, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = columnInfo{
			Name:          c.Name,
			Type:          c.Type,
			Nullable:      c.Nullable,
			Default:       c.Default,
			PrimaryKey:    c.PrimaryKey,
			AutoIncrement: c.AutoIncrement,
		}
	}
	return out
}

func newColumnsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns TABLE",
		Short: "List the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.engine()
			if err != nil {
				return err
			}
			defer eng.Close()

			cr, err := dol.NewColumnsReader(ctx, eng, args[0])
			if err != nil {
				return err
			}

			infos := columnInfos(cr.Table())
			if a.json() {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			rows := make([][]string, len(infos))
			for i, c := range infos {
				def := ""
				if c.Default != nil {
					def = *c.Default
				}
				rows[i] = []string{c.Name, c.Type, yesNo(c.Nullable), def, yesNo(c.PrimaryKey)}
			}
			return ui.PrintTable(cmd.OutOrStdout(), []string{"column", "type", "nullable", "default", "primary key"}, rows)
		},
	}
}

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Describe a table's columns, keys and indexes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := a.engine()
			if err != nil {
				return err
			}
			defer eng.Close()

			cr, err := dol.NewColumnsReader(ctx, eng, args[0])
			if err != nil {
				return err
			}
			t := cr.Table()

			if a.json() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"name":        t.Name,
					"schema":      t.Schema,
					"columns":     columnInfos(t),
					"primaryKey":  t.PrimaryKey,
					"indexes":     t.Indexes,
					"foreignKeys": t.ForeignKeys,
				})
			}

			out, err := ui.RenderMarkdown(describeMarkdown(t))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func describeMarkdown(t *schema.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)

	b.WriteString("| column | type | nullable | default |\n|---|---|---|---|\n")
	for _, c := range t.Columns {
		name := c.Name
		if c.PrimaryKey {
			name = "**" + name + "**"
		}
		def := ""
		if c.Default != nil {
			def = "`" + *c.Default + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", name, c.Type, yesNo(c.Nullable), def)
	}

	if len(t.Indexes) > 0 {
		b.WriteString("\n## Indexes\n\n")
		for _, idx := range t.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = " (unique)"
			}
			fmt.Fprintf(&b, "- %s on %s%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
		}
	}

	if len(t.ForeignKeys) > 0 {
		b.WriteString("\n## Foreign keys\n\n")
		for _, fk := range t.ForeignKeys {
			fmt.Fprintf(&b, "- (%s) → %s (%s)\n",
				strings.Join(fk.Columns, ", "), fk.ReferencedTable, strings.Join(fk.ReferencedColumns, ", "))
		}
	}

	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
