// Package executor runs read queries against a table and scans the results
// into positional rows.
//
// Every query checks one dedicated connection out of the engine and returns it
// before the call completes, whatever way the caller leaves.
package executor

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/internal/debug"
	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/satishbabariya/sqldol/schema"
)

var (
	// ErrNoEngine means neither the query nor its table is bound to an engine.
	ErrNoEngine = errors.New("no engine bound to table")
	// ErrNoTable means the query names no table.
	ErrNoTable = errors.New("no table given")
)

// Row is one result row, positionally aligned with the selected columns.
type Row []any

// Select describes a read over one table.
type Select struct {
	Table   *schema.Table
	Columns []string            // empty selects every column
	Where   *sqlgen.WhereClause // nil selects every row

	// Engine overrides Table.Engine.
	Engine engine.Connector
}

func (s Select) connector() (engine.Connector, error) {
	if s.Table == nil {
		return nil, ErrNoTable
	}
	if s.Engine != nil {
		return s.Engine, nil
	}
	if s.Table.Engine != nil {
		return s.Table.Engine, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoEngine, s.Table.Name)
}

// WithRows runs the query and hands the open result set to fn. The result set
// and its connection are released before WithRows returns, including when fn
// fails or panics.
func WithRows(ctx context.Context, sel Select, fn func(*Rows) error) error {
	c, err := sel.connector()
	if err != nil {
		return err
	}

	q := sqlgen.NewGenerator(string(c.Dialect())).
		GenerateSelect(sel.Table.Name, sel.Columns, sel.Where, nil, nil, nil)

	conn, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer release(conn)

	debug.Debug("query", "sql", q.SQL, "args", len(q.Args))

	rows, err := conn.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	r, err := newRows(rows)
	if err != nil {
		return err
	}
	return fn(r)
}

// Iterate returns a lazy sequence over the query's rows. Each range over the
// sequence re-executes the query; breaking out early releases the connection.
// An error ends the sequence as its last element.
func Iterate(ctx context.Context, sel Select) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		stopped := false
		err := WithRows(ctx, sel, func(r *Rows) error {
			for r.Next() {
				if !yield(r.Row(), nil) {
					stopped = true
					return nil
				}
			}
			return r.Err()
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

// Collect materialises every row of the query.
func Collect(ctx context.Context, sel Select) ([]Row, error) {
	out := []Row{}
	for row, err := range Iterate(ctx, sel) {
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// Count returns the number of rows Iterate would yield for the same Select.
func Count(ctx context.Context, sel Select) (int, error) {
	c, err := sel.connector()
	if err != nil {
		return 0, err
	}

	q := sqlgen.NewGenerator(string(c.Dialect())).GenerateCount(sel.Table.Name, sel.Where)

	conn, err := c.Connect(ctx)
	if err != nil {
		return 0, err
	}
	defer release(conn)

	debug.Debug("query", "sql", q.SQL, "args", len(q.Args))

	var n int
	if err := conn.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

func release(conn engine.Conn) {
	if err := conn.Close(); err != nil {
		debug.Warn("failed to release connection", "error", err)
	}
}
