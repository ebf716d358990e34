package executor

import (
	"database/sql"
	"fmt"
	"strings"
)

// Rows is an open result set. It is only valid inside the WithRows callback.
type Rows struct {
	rows    *sql.Rows
	columns []string
	binary  []bool
	current Row
	err     error
}

func newRows(rows *sql.Rows) (*Rows, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	binary := make([]bool, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			binary[i] = isBinaryType(ct.DatabaseTypeName())
		}
	}

	return &Rows{rows: rows, columns: columns, binary: binary}, nil
}

// Next advances to the next row. It returns false at the end or on error.
func (r *Rows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}

	values := make(Row, len(r.columns))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}

	// drivers hand back text as []byte; keep bytes only for binary columns
	for i, v := range values {
		if b, ok := v.([]byte); ok && !r.binary[i] {
			values[i] = string(b)
		}
	}

	r.current = values
	return true
}

// Row returns the current row. Each call to Next allocates a new Row, so it
// may be retained.
func (r *Rows) Row() Row {
	return r.current
}

// Columns returns the result column names.
func (r *Rows) Columns() []string {
	return r.columns
}

// Err returns the first error met while iterating.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

func isBinaryType(name string) bool {
	switch strings.ToUpper(name) {
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return true
	}
	return false
}
