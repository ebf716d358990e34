package dol

import (
	"context"
	"iter"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/query/executor"
	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/satishbabariya/sqldol/schema"
)

// Pair is one (key, value) entry of a KvReader. Keys may repeat.
type Pair struct {
	Key   any
	Value any
}

// KvReader maps values of a key column to the rows holding them. Keys are
// not assumed unique, so Get returns every matching row.
type KvReader struct {
	binding
	table       *schema.Table
	keyColumn   string
	valueColumn string
	where       *sqlgen.WhereClause

	keyIdx, valueIdx int
}

// NewKvReader reflects tableName through src. An empty valueColumn makes
// whole rows the values.
func NewKvReader(ctx context.Context, src engine.Source, tableName, keyColumn, valueColumn string, opts ...Option) (*KvReader, error) {
	b, err := bind(ctx, src)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	t, err := lookupTable(ctx, b.eng, tableName, o)
	if err != nil {
		return nil, b.closeOnError(err)
	}

	r := &KvReader{
		binding:     b,
		table:       t,
		keyColumn:   keyColumn,
		valueColumn: valueColumn,
		where:       o.where,
		keyIdx:      columnIndex(t, keyColumn),
		valueIdx:    -1,
	}
	if r.keyIdx < 0 {
		return nil, b.closeOnError(&KeyError{Kind: "column", Key: keyColumn})
	}
	if valueColumn != "" {
		if r.valueIdx = columnIndex(t, valueColumn); r.valueIdx < 0 {
			return nil, b.closeOnError(&KeyError{Kind: "column", Key: valueColumn})
		}
	}
	return r, nil
}

func columnIndex(t *schema.Table, name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// keyed selects the rows matching key; a nil key matches NULL key columns.
func (r *KvReader) keyed(key any) executor.Select {
	cond := sqlgen.Eq(r.keyColumn, key)
	if key == nil {
		cond = sqlgen.IsNull(r.keyColumn)
	}
	return executor.Select{
		Table:  r.table,
		Where:  sqlgen.And(sqlgen.Where(cond), r.where),
		Engine: r.eng,
	}
}

func (r *KvReader) base() executor.Select {
	return executor.Select{Table: r.table, Where: r.where, Engine: r.eng}
}

// Get returns every row whose key column equals key. No match yields an
// empty slice, not an error.
func (r *KvReader) Get(ctx context.Context, key any) ([]Row, error) {
	return executor.Collect(ctx, r.keyed(key))
}

// Contains reports whether Get would return at least one row.
func (r *KvReader) Contains(ctx context.Context, key any) (bool, error) {
	n, err := executor.Count(ctx, r.keyed(key))
	return n > 0, err
}

// All yields one pair per row, in row order, duplicates included.
func (r *KvReader) All(ctx context.Context) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		for row, err := range executor.Iterate(ctx, r.base()) {
			if err != nil {
				yield(Pair{}, err)
				return
			}
			if !yield(r.pair(row), nil) {
				return
			}
		}
	}
}

func (r *KvReader) pair(row Row) Pair {
	p := Pair{Key: row[r.keyIdx], Value: row}
	if r.valueIdx >= 0 {
		p.Value = row[r.valueIdx]
	}
	return p
}

// Keys yields the key of every row, duplicates included.
func (r *KvReader) Keys(ctx context.Context) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for p, err := range r.All(ctx) {
			if !yield(p.Key, err) || err != nil {
				return
			}
		}
	}
}

// Len counts rows under the view's filter; it equals the number of pairs All yields.
func (r *KvReader) Len(ctx context.Context) (int, error) {
	return executor.Count(ctx, r.base())
}

// Rows exposes the filtered base query.
func (r *KvReader) Rows() *TableRows {
	return &TableRows{sel: r.base()}
}

func (r *KvReader) Table() *schema.Table { return r.table }
func (r *KvReader) KeyColumn() string    { return r.keyColumn }
func (r *KvReader) ValueColumn() string  { return r.valueColumn }

var _ Mapping[any, []Row] = (*KvReader)(nil)
