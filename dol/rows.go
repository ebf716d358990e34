package dol

import (
	"context"
	"iter"

	"github.com/satishbabariya/sqldol/query/executor"
	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/satishbabariya/sqldol/schema"
)

// TableRows is the row sequence of one table, optionally filtered.
type TableRows struct {
	sel executor.Select
}

// NewTableRows reads table through the engine it was reflected from.
func NewTableRows(table *schema.Table, where *sqlgen.WhereClause) *TableRows {
	return &TableRows{sel: executor.Select{Table: table, Where: where}}
}

// All yields every row in the order the database returns them.
func (r *TableRows) All(ctx context.Context) iter.Seq2[Row, error] {
	return executor.Iterate(ctx, r.sel)
}

// Len counts the rows All would yield.
func (r *TableRows) Len(ctx context.Context) (int, error) {
	return executor.Count(ctx, r.sel)
}

// Table returns the underlying table.
func (r *TableRows) Table() *schema.Table {
	return r.sel.Table
}

// Columns returns the names the rows are aligned with.
func (r *TableRows) Columns() []string {
	if len(r.sel.Columns) > 0 {
		return r.sel.Columns
	}
	return r.sel.Table.ColumnNames()
}
