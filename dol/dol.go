// Package dol exposes database tables as read-only mappings.
//
// TablesView maps table names to table descriptors, ColumnsView maps column
// names to column descriptors, ColumnsReader maps column names to the values
// stored in them and KvReader maps the values of a key column to the rows
// carrying them. None of the views cache rows: every call queries the
// database through a connection held only for that call.
package dol

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/query/executor"
	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/satishbabariya/sqldol/schema"
)

// Row is one positional result row.
type Row = executor.Row

// Mapping is the read-only dictionary protocol shared by every view.
type Mapping[K comparable, V any] interface {
	// Get returns the value stored under key, or a *KeyError.
	Get(ctx context.Context, key K) (V, error)
	Contains(ctx context.Context, key K) (bool, error)
	// Keys yields keys lazily; an error ends the sequence.
	Keys(ctx context.Context) iter.Seq2[K, error]
	Len(ctx context.Context) (int, error)
}

// ErrKeyNotFound is matched by every *KeyError.
var ErrKeyNotFound = errors.New("key not found")

// KeyError reports a missing table, column or key.
type KeyError struct {
	Kind string // "table", "column" or "key"
	Key  any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Kind, e.Key)
}

func (e *KeyError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// Option configures a view.
type Option func(*options)

type options struct {
	where    *sqlgen.WhereClause
	catalog  *schema.Catalog
	metadata *schema.MetaData
}

// WithFilter restricts a view to rows matching where.
func WithFilter(where *sqlgen.WhereClause) Option {
	return func(o *options) { o.where = where }
}

// WithCatalog reflects tables through a shared catalog instead of once per view.
func WithCatalog(c *schema.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithMetaData reuses an existing reflection instead of reading the catalog again.
func WithMetaData(md *schema.MetaData) Option {
	return func(o *options) { o.metadata = md }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// binding is the engine a view reads through and whether the view must close it.
type binding struct {
	eng   *engine.Engine
	owned bool
}

func bind(ctx context.Context, src engine.Source) (binding, error) {
	eng, err := engine.Ensure(ctx, src)
	if err != nil {
		return binding{}, err
	}
	return binding{eng: eng, owned: engine.Owned(src)}, nil
}

// Engine returns the engine the view reads through.
func (b binding) Engine() *engine.Engine {
	return b.eng
}

// Close releases the engine if the view opened it from a URL.
func (b binding) Close() error {
	if b.owned {
		return b.eng.Close()
	}
	return nil
}

// closeOnError closes an owned engine when construction fails.
func (b binding) closeOnError(err error) error {
	if b.owned {
		_ = b.eng.Close()
	}
	return err
}

// lookupTable finds the named table through metadata, a catalog, or a fresh reflection.
func lookupTable(ctx context.Context, eng *engine.Engine, name string, o options) (*schema.Table, error) {
	var (
		t   *schema.Table
		err error
	)
	switch {
	case o.metadata != nil:
		if t = o.metadata.Table(name); t == nil {
			err = schema.ErrTableNotFound
		}
	case o.catalog != nil:
		t, err = o.catalog.Table(ctx, eng, name)
	default:
		t, err = schema.ReflectTable(ctx, eng, name)
	}

	if schema.IsNotFound(err) {
		return nil, &KeyError{Kind: "table", Key: name}
	}
	return t, err
}

// Collect drains a key or row sequence into a slice.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func sliceSeq[T any](items []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, v := range items {
			if !yield(v, nil) {
				return
			}
		}
	}
}
