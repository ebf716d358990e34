package dol

import (
	"context"
	"iter"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/schema"
)

// TablesView maps table names to reflected table descriptors. The whole
// catalog is reflected once, when the view is built.
type TablesView struct {
	binding
	md   *schema.MetaData
	opts options
}

// NewTablesView reflects every table reachable through src.
func NewTablesView(ctx context.Context, src engine.Source, opts ...Option) (*TablesView, error) {
	b, err := bind(ctx, src)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	md := o.metadata
	if md == nil {
		if md, err = schema.Reflect(ctx, b.eng); err != nil {
			return nil, b.closeOnError(err)
		}
	}

	return &TablesView{binding: b, md: md, opts: o}, nil
}

func (v *TablesView) Get(_ context.Context, name string) (*schema.Table, error) {
	return v.table(name)
}

func (v *TablesView) table(name string) (*schema.Table, error) {
	if t := v.md.Table(name); t != nil {
		return t, nil
	}
	return nil, &KeyError{Kind: "table", Key: name}
}

func (v *TablesView) Contains(_ context.Context, name string) (bool, error) {
	return v.md.Table(name) != nil, nil
}

// Keys yields table names in reflection order.
func (v *TablesView) Keys(context.Context) iter.Seq2[string, error] {
	return sliceSeq(v.md.Names())
}

func (v *TablesView) Len(context.Context) (int, error) {
	return v.md.Len(), nil
}

// MetaData returns the reflection the view was built on.
func (v *TablesView) MetaData() *schema.MetaData {
	return v.md
}

// Columns returns the column view of one table.
func (v *TablesView) Columns(name string) (*ColumnsView, error) {
	t, err := v.table(name)
	if err != nil {
		return nil, err
	}
	return NewColumnsView(t), nil
}

// Rows returns the rows of one table, restricted by the view's filter.
func (v *TablesView) Rows(name string) (*TableRows, error) {
	t, err := v.table(name)
	if err != nil {
		return nil, err
	}
	return NewTableRows(t, v.opts.where), nil
}

var _ Mapping[string, *schema.Table] = (*TablesView)(nil)
