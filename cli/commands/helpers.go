package commands

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/query/filter"
	"github.com/satishbabariya/sqldol/stores"
)

// whereFlag registers --where on cmd and returns a getter for the parsed clause.
func whereFlag(cmd *cobra.Command) func() ([]dol.Option, error) {
	var expr string
	cmd.Flags().StringVarP(&expr, "where", "w", "", "row filter, e.g. \"age >= 18 AND name LIKE 'a%'\"")

	return func() ([]dol.Option, error) {
		where, err := filter.Parse(expr)
		if err != nil {
			return nil, err
		}
		if where == nil {
			return nil, nil
		}
		return []dol.Option{dol.WithFilter(where)}, nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonValue(v))
}

// jsonValue rewrites binary values as 0x-prefixed hex, recursing into rows and records.
func jsonValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return ui.FormatValue(x)
	case []dol.Row:
		out := make([][]any, len(x))
		for i, r := range x {
			out[i] = jsonValue(r).([]any)
		}
		return out
	case dol.Row:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = jsonValue(c)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = jsonValue(c)
		}
		return out
	case stores.Record:
		out := make(map[string]any, len(x))
		for k, c := range x {
			out[k] = jsonValue(c)
		}
		return out
	case []stores.Record:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = jsonValue(r)
		}
		return out
	case []dol.Pair:
		out := make([]map[string]any, len(x))
		for i, p := range x {
			out[i] = map[string]any{"key": jsonValue(p.Key), "value": jsonValue(p.Value)}
		}
		return out
	default:
		return v
	}
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if r, ok := v.(dol.Row); ok {
			out[i] = cellsJoined(r)
			continue
		}
		out[i] = ui.FormatValue(v)
	}
	return out
}

func cellsJoined(row dol.Row) string {
	return "(" + strings.Join(cells(row), ", ") + ")"
}

func printRows(w io.Writer, headers []string, rows []dol.Row) error {
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = cells(r)
	}
	return ui.PrintTable(w, headers, table)
}

func printRecords(w io.Writer, fields []string, recs []stores.Record) error {
	rows := make([]dol.Row, len(recs))
	for i, rec := range recs {
		row := make(dol.Row, len(fields))
		for j, f := range fields {
			row[j] = rec[f]
		}
		rows[i] = row
	}
	return printRows(w, fields, rows)
}
