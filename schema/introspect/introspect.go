// Package introspect reads table and column metadata from a live database catalog.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported database provider")
	ErrTableNotFound       = errors.New("table not found")
)

// Querier is the read surface introspectors need; *sql.DB and *sql.Conn satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Introspector reads catalog metadata for one dialect.
type Introspector interface {
	// TableNames lists base tables in catalog order.
	TableNames(ctx context.Context) ([]string, error)
	// IntrospectTable reads one table; ErrTableNotFound if it does not exist.
	IntrospectTable(ctx context.Context, name string) (*Table, error)
}

// DatabaseSchema represents the introspected database schema
type DatabaseSchema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name        string
	Schema      string
	Columns     []Column
	PrimaryKey  *PrimaryKey
	Indexes     []Index
	ForeignKeys []ForeignKey
}

// Column represents a table column
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	DefaultValue  *string
	AutoIncrement bool
	PrimaryKey    bool
	Position      int // 1-based, definition order
}

// PrimaryKey represents a primary key constraint
type PrimaryKey struct {
	Name    string
	Columns []string
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// ForeignKey represents a foreign key constraint
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          string
	OnUpdate          string
}

// NewIntrospector creates a new introspector for the given database
func NewIntrospector(db Querier, provider string) (Introspector, error) {
	switch provider {
	case "postgresql", "postgres":
		return &PostgresIntrospector{db: db, Schema: "public"}, nil
	case "mysql":
		return &MySQLIntrospector{db: db}, nil
	case "sqlite", "sqlite3":
		return &SQLiteIntrospector{db: db}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// Introspect reads every table the introspector can see.
func Introspect(ctx context.Context, in Introspector) (*DatabaseSchema, error) {
	names, err := in.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect tables: %w", err)
	}

	schema := &DatabaseSchema{Tables: make([]Table, 0, len(names))}
	for _, name := range names {
		table, err := in.IntrospectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect %s: %w", name, err)
		}
		schema.Tables = append(schema.Tables, *table)
	}

	return schema, nil
}

// collectStrings drains a single-column result set.
func collectStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
