// Package stores wraps a dol.KvReader so that Get returns shaped values
// instead of raw row lists: the first row, the only row, or rows as records.
package stores

import (
	"context"
	"fmt"
	"iter"

	"github.com/satishbabariya/sqldol/dol"
)

// Shaped is a KvReader whose Get passes the matching rows through a transform.
// Keys, All, Len and Contains are those of the underlying reader.
type Shaped[V any] struct {
	base  *dol.KvReader
	shape func([]dol.Row) (V, error)
}

// Shape wraps base with fn.
func Shape[V any](base *dol.KvReader, fn func([]dol.Row) (V, error)) *Shaped[V] {
	return &Shaped[V]{base: base, shape: fn}
}

// Get shapes the rows stored under key.
func (s *Shaped[V]) Get(ctx context.Context, key any) (V, error) {
	rows, err := s.base.Get(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	v, err := s.shape(rows)
	if err != nil {
		return v, fmt.Errorf("key %v: %w", key, err)
	}
	return v, nil
}

// Contains reports whether any row has key.
func (s *Shaped[V]) Contains(ctx context.Context, key any) (bool, error) {
	return s.base.Contains(ctx, key)
}

// Keys yields the key of every row, duplicates included.
func (s *Shaped[V]) Keys(ctx context.Context) iter.Seq2[any, error] {
	return s.base.Keys(ctx)
}

// All yields the unshaped pairs of the wrapped reader.
func (s *Shaped[V]) All(ctx context.Context) iter.Seq2[dol.Pair, error] {
	return s.base.All(ctx)
}

// Len counts the rows of the wrapped reader.
func (s *Shaped[V]) Len(ctx context.Context) (int, error) {
	return s.base.Len(ctx)
}

// Base returns the wrapped reader.
func (s *Shaped[V]) Base() *dol.KvReader {
	return s.base
}

// Close closes the wrapped reader.
func (s *Shaped[V]) Close() error {
	return s.base.Close()
}

var _ dol.Mapping[any, dol.Row] = (*Shaped[dol.Row])(nil)
