package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqldol/cli/internal/ui"
	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/query/filter"
	"github.com/satishbabariya/sqldol/stores"
)

func newCountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count TABLE",
		Short: "Count the rows of a table",
		Args:  cobra.ExactArgs(1),
	}
	where := whereFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
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
		n, err := rows.Len(ctx)
		if err != nil {
			return err
		}

		if a.json() {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"table": args[0], "count": n})
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
		return err
	}
	return cmd
}

func newValuesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values TABLE COLUMN",
		Short: "Print every value of one column",
		Args:  cobra.ExactArgs(2),
	}
	where := whereFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
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

		cr, err := dol.NewColumnsReader(ctx, eng, args[0], opts...)
		if err != nil {
			return err
		}
		values, err := cr.Get(ctx, args[1])
		if err != nil {
			return err
		}

		if a.json() {
			return writeJSON(cmd.OutOrStdout(), values)
		}
		for _, v := range values {
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatValue(v))
		}
		return nil
	}
	return cmd
}

// Shapes accepted by get --shape.
const (
	shapeRows  = "rows"
	shapeFirst = "first"
	shapeOne   = "one"
	shapeDicts = "dicts"
	shapeDict  = "dict"
)

func newGetCommand(a *app) *cobra.Command {
	var keyColumn, valueColumn, shape string
	var fields []string

	cmd := &cobra.Command{
		Use:   "get TABLE KEY",
		Short: "Print the rows whose key column equals KEY",
		Long: `Print the rows whose key column equals KEY.

KEY is read like a filter literal: 42 and 4.5 are numbers, 'quoted' is a string,
TRUE/FALSE are booleans, NULL matches rows whose key is NULL and anything else is
taken as a plain string.

--shape controls the result: rows (every match), first (first match),
one (exactly one match, else an error), dicts or dict (matches as records).`,
		Args: cobra.ExactArgs(2),
	}
	where := whereFlag(cmd)
	cmd.Flags().StringVarP(&keyColumn, "key", "k", "", "key column (required)")
	cmd.Flags().StringVarP(&valueColumn, "value", "v", "", "value column")
	cmd.Flags().StringVar(&shape, "shape", shapeRows, "rows, first, one, dicts or dict")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "record field names for dicts/dict (default: column names)")
	_ = cmd.MarkFlagRequired("key")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
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

		table, key := args[0], filter.ParseValue(args[1])
		w := cmd.OutOrStdout()

		switch shape {
		case shapeRows:
			r, err := stores.NewRowsReader(ctx, eng, table, keyColumn, valueColumn, opts...)
			if err != nil {
				return err
			}
			rows, err := r.Get(ctx, key)
			if err != nil {
				return err
			}
			if a.json() {
				return writeJSON(w, rows)
			}
			return printRows(w, r.Base().Table().ColumnNames(), rows)

		case shapeFirst, shapeOne:
			newReader := stores.NewRowReader
			if shape == shapeOne {
				newReader = stores.NewOneRowReader
			}
			r, err := newReader(ctx, eng, table, keyColumn, valueColumn, opts...)
			if err != nil {
				return err
			}
			row, err := r.Get(ctx, key)
			if err != nil {
				return err
			}
			if a.json() {
				return writeJSON(w, row)
			}
			return printRows(w, r.Base().Table().ColumnNames(), []dol.Row{row})

		case shapeDicts, shapeDict:
			kv, err := dol.NewKvReader(ctx, eng, table, keyColumn, valueColumn, opts...)
			if err != nil {
				return err
			}
			names := fields
			if names == nil {
				names = kv.Table().ColumnNames()
			}

			var recs []stores.Record
			if shape == shapeDicts {
				if recs, err = stores.Shape(kv, stores.Dicts(names)).Get(ctx, key); err != nil {
					return err
				}
			} else {
				rec, err := stores.Shape(kv, stores.FirstDict(names)).Get(ctx, key)
				if err != nil {
					return err
				}
				if a.json() {
					return writeJSON(w, rec)
				}
				recs = []stores.Record{rec}
			}
			if a.json() {
				return writeJSON(w, recs)
			}
			return printRecords(w, names, recs)

		default:
			return fmt.Errorf("unknown shape %q", shape)
		}
	}
	return cmd
}

func newItemsCommand(a *app) *cobra.Command {
	var keyColumn, valueColumn string
	var limit int

	cmd := &cobra.Command{
		Use:   "items TABLE",
		Short: "Print (key, value) pairs, one per row",
		Args:  cobra.ExactArgs(1),
	}
	where := whereFlag(cmd)
	cmd.Flags().StringVarP(&keyColumn, "key", "k", "", "key column (required)")
	cmd.Flags().StringVarP(&valueColumn, "value", "v", "", "value column (default: whole row)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after n pairs")
	_ = cmd.MarkFlagRequired("key")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
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

		kv, err := dol.NewKvReader(ctx, eng, args[0], keyColumn, valueColumn, opts...)
		if err != nil {
			return err
		}

		pairs, err := collectPairs(kv, cmd, limit)
		if err != nil {
			return err
		}
		if a.json() {
			return writeJSON(cmd.OutOrStdout(), pairs)
		}

		rows := make([]dol.Row, len(pairs))
		for i, p := range pairs {
			rows[i] = dol.Row{p.Key, p.Value}
		}
		value := valueColumn
		if value == "" {
			value = "row"
		}
		return printRows(cmd.OutOrStdout(), []string{keyColumn, value}, rows)
	}
	return cmd
}

func collectPairs(kv *dol.KvReader, cmd *cobra.Command, limit int) ([]dol.Pair, error) {
	pairs := []dol.Pair{}
	for p, err := range kv.All(cmd.Context()) {
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
		if limit > 0 && len(pairs) >= limit {
			break
		}
	}
	return pairs, nil
}
