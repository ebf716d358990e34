// Package schema holds reflected table and column descriptors.
//
// Descriptors are produced by Reflect / ReflectTable from the live catalog and
// are treated as immutable afterwards; views read them but never modify them.
package schema

import (
	"errors"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/schema/introspect"
)

// ErrTableNotFound is returned when a reflected table does not exist.
var ErrTableNotFound = introspect.ErrTableNotFound

type (
	PrimaryKey = introspect.PrimaryKey
	Index      = introspect.Index
	ForeignKey = introspect.ForeignKey
)

// Column describes one table column.
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	Default       *string
	AutoIncrement bool
	PrimaryKey    bool
	Position      int
}

// Table describes one table and the engine it was reflected from.
type Table struct {
	Name        string
	Schema      string
	Columns     []*Column
	PrimaryKey  *PrimaryKey
	Indexes     []Index
	ForeignKeys []ForeignKey

	// Engine is the connection the table is bound to; nil for hand-built tables.
	Engine engine.Connector
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ColumnNames returns column names in definition order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// MetaData is the result of one reflection pass over a database.
type MetaData struct {
	Tables []*Table
	byName map[string]*Table
}

// NewMetaData indexes tables by name. Later duplicates win.
func NewMetaData(tables ...*Table) *MetaData {
	md := &MetaData{Tables: tables, byName: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		md.byName[t.Name] = t
	}
	return md
}

// Table returns the named table, or nil.
func (m *MetaData) Table(name string) *Table {
	return m.byName[name]
}

// Names returns table names in reflection order.
func (m *MetaData) Names() []string {
	names := make([]string, len(m.Tables))
	for i, t := range m.Tables {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of tables.
func (m *MetaData) Len() int {
	return len(m.Tables)
}

// IsNotFound reports whether err means the table does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTableNotFound)
}

func fromIntrospected(t *introspect.Table, conn engine.Connector) *Table {
	table := &Table{
		Name:        t.Name,
		Schema:      t.Schema,
		Columns:     make([]*Column, len(t.Columns)),
		PrimaryKey:  t.PrimaryKey,
		Indexes:     t.Indexes,
		ForeignKeys: t.ForeignKeys,
		Engine:      conn,
	}
	for i, c := range t.Columns {
		table.Columns[i] = &Column{
			Name:          c.Name,
			Type:          c.Type,
			Nullable:      c.Nullable,
			Default:       c.DefaultValue,
			AutoIncrement: c.AutoIncrement,
			PrimaryKey:    c.PrimaryKey,
			Position:      c.Position,
		}
	}
	return table
}
