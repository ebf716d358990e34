package stores

import (
	"context"

	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/engine"
)

// NewRowsReader maps keys to every matching row.
func NewRowsReader(ctx context.Context, src engine.Source, table, keyColumn, valueColumn string, opts ...dol.Option) (*Shaped[[]dol.Row], error) {
	kv, err := dol.NewKvReader(ctx, src, table, keyColumn, valueColumn, opts...)
	if err != nil {
		return nil, err
	}
	return Shape(kv, ListValues), nil
}

// NewRowReader maps keys to the first matching row.
func NewRowReader(ctx context.Context, src engine.Source, table, keyColumn, valueColumn string, opts ...dol.Option) (*Shaped[dol.Row], error) {
	kv, err := dol.NewKvReader(ctx, src, table, keyColumn, valueColumn, opts...)
	if err != nil {
		return nil, err
	}
	return Shape(kv, FirstValue), nil
}

// NewOneRowReader maps keys to their single matching row; keys matching
// several rows are an error.
func NewOneRowReader(ctx context.Context, src engine.Source, table, keyColumn, valueColumn string, opts ...dol.Option) (*Shaped[dol.Row], error) {
	kv, err := dol.NewKvReader(ctx, src, table, keyColumn, valueColumn, opts...)
	if err != nil {
		return nil, err
	}
	return Shape(kv, ExactlyOne), nil
}

// NewDictsReader maps keys to matching rows as records. Nil fields default
// to the table's column names.
func NewDictsReader(ctx context.Context, src engine.Source, table, keyColumn, valueColumn string, fields []string, opts ...dol.Option) (*Shaped[[]Record], error) {
	kv, err := dol.NewKvReader(ctx, src, table, keyColumn, valueColumn, opts...)
	if err != nil {
		return nil, err
	}
	return Shape(kv, Dicts(fieldsOrColumns(kv, fields))), nil
}

// NewDictReader maps keys to the first matching row as a record.
func NewDictReader(ctx context.Context, src engine.Source, table, keyColumn, valueColumn string, fields []string, opts ...dol.Option) (*Shaped[Record], error) {
	kv, err := dol.NewKvReader(ctx, src, table, keyColumn, valueColumn, opts...)
	if err != nil {
		return nil, err
	}
	return Shape(kv, FirstDict(fieldsOrColumns(kv, fields))), nil
}

func fieldsOrColumns(kv *dol.KvReader, fields []string) []string {
	if fields != nil {
		return fields
	}
	return kv.Table().ColumnNames()
}
