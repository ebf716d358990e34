package dol

import (
	"context"
	"iter"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/query/executor"
	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/satishbabariya/sqldol/schema"
)

// ColumnsView maps column names to the descriptors of one table. It reads the
// table's reflected column list and never touches the database.
type ColumnsView struct {
	table *schema.Table
}

func NewColumnsView(table *schema.Table) *ColumnsView {
	return &ColumnsView{table: table}
}

func (v *ColumnsView) Get(_ context.Context, name string) (*schema.Column, error) {
	if c := v.table.Column(name); c != nil {
		return c, nil
	}
	return nil, &KeyError{Kind: "column", Key: name}
}

func (v *ColumnsView) Contains(_ context.Context, name string) (bool, error) {
	return v.table.Column(name) != nil, nil
}

// Keys yields column names in definition order.
func (v *ColumnsView) Keys(context.Context) iter.Seq2[string, error] {
	return sliceSeq(v.table.ColumnNames())
}

func (v *ColumnsView) Len(context.Context) (int, error) {
	return len(v.table.Columns), nil
}

// Table returns the viewed table.
func (v *ColumnsView) Table() *schema.Table {
	return v.table
}

// ColumnsReader maps column names to every value stored in that column.
type ColumnsReader struct {
	binding
	*ColumnsView
	where *sqlgen.WhereClause
}

// NewColumnsReader reflects tableName through src.
func NewColumnsReader(ctx context.Context, src engine.Source, tableName string, opts ...Option) (*ColumnsReader, error) {
	b, err := bind(ctx, src)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	t, err := lookupTable(ctx, b.eng, tableName, o)
	if err != nil {
		return nil, b.closeOnError(err)
	}

	return &ColumnsReader{binding: b, ColumnsView: NewColumnsView(t), where: o.where}, nil
}

// Get returns the values of column in row order.
func (r *ColumnsReader) Get(ctx context.Context, column string) ([]any, error) {
	if r.table.Column(column) == nil {
		return nil, &KeyError{Kind: "column", Key: column}
	}

	rows, err := executor.Collect(ctx, executor.Select{
		Table:   r.table,
		Columns: []string{column},
		Where:   r.where,
		Engine:  r.eng,
	})
	if err != nil {
		return nil, err
	}

	values := make([]any, len(rows))
	for i, row := range rows {
		values[i] = row[0]
	}
	return values, nil
}

var (
	_ Mapping[string, *schema.Column] = (*ColumnsView)(nil)
	_ Mapping[string, []any]          = (*ColumnsReader)(nil)
)
