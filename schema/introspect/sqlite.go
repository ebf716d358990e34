package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// SQLiteIntrospector implements introspection for SQLite
type SQLiteIntrospector struct {
	db Querier
}

// TableNames lists user tables, excluding sqlite_ internals.
func (i *SQLiteIntrospector) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return collectStrings(rows)
}

// IntrospectTable reads columns, indexes and foreign keys of one table.
func (i *SQLiteIntrospector) IntrospectTable(ctx context.Context, name string) (*Table, error) {
	table := &Table{Name: name, Schema: "main"}

	columns, pkColumns, err := i.introspectColumns(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect columns for %s: %w", name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	table.Columns = columns
	if len(pkColumns) > 0 {
		table.PrimaryKey = &PrimaryKey{Name: name + "_pkey", Columns: pkColumns}
	}

	if table.Indexes, err = i.introspectIndexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to introspect indexes for %s: %w", name, err)
	}
	if table.ForeignKeys, err = i.introspectForeignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to introspect foreign keys for %s: %w", name, err)
	}

	return table, nil
}

// introspectColumns reads all columns for a table using PRAGMA, plus the
// primary key columns in key order.
func (i *SQLiteIntrospector) introspectColumns(ctx context.Context, tableName string) ([]Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLite(tableName))

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	pkOrder := map[int]string{}
	for rows.Next() {
		var cid int
		var col Column
		var colType string
		var notNull int
		var dfltValue sql.NullString
		var pkOrdinal int

		if err := rows.Scan(&cid, &col.Name, &colType, &notNull, &dfltValue, &pkOrdinal); err != nil {
			return nil, nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.Position = cid + 1
		col.Type = mapSQLiteType(colType)
		col.Nullable = notNull == 0
		col.PrimaryKey = pkOrdinal > 0
		if col.PrimaryKey {
			pkOrder[pkOrdinal] = col.Name
		}

		if dfltValue.Valid && dfltValue.String != "" {
			col.DefaultValue = &dfltValue.String
		}

		// a lone INTEGER PRIMARY KEY aliases the rowid
		col.AutoIncrement = pkOrdinal == 1 && strings.EqualFold(colType, "INTEGER")

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	pk := make([]string, 0, len(pkOrder))
	for n := 1; n <= len(pkOrder); n++ {
		pk = append(pk, pkOrder[n])
	}
	if len(pk) > 1 {
		for n := range columns {
			columns[n].AutoIncrement = false
		}
	}
	return columns, pk, nil
}

// introspectIndexes reads all indexes for a table
func (i *SQLiteIntrospector) introspectIndexes(ctx context.Context, tableName string) ([]Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteSQLite(tableName))

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}

	var indexes []Index
	for rows.Next() {
		var seq int
		var idx Index
		var unique int
		var origin string
		var partial int

		if err := rows.Scan(&seq, &idx.Name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		// primary key indexes are reported through Table.PrimaryKey
		if origin == "pk" {
			continue
		}
		idx.IsUnique = unique == 1
		indexes = append(indexes, idx)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// index_info needs its own query; sqlite connections allow one open cursor per statement
	for n := range indexes {
		colRows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteSQLite(indexes[n].Name)))
		if err != nil {
			return nil, fmt.Errorf("failed to query index columns: %w", err)
		}
		for colRows.Next() {
			var seqno, cid int
			var name sql.NullString
			if err := colRows.Scan(&seqno, &cid, &name); err != nil {
				colRows.Close()
				return nil, fmt.Errorf("failed to scan index column: %w", err)
			}
			if name.Valid {
				indexes[n].Columns = append(indexes[n].Columns, name.String)
			}
		}
		colRows.Close()
	}

	sort.Slice(indexes, func(a, b int) bool { return indexes[a].Name < indexes[b].Name })
	return indexes, nil
}

// introspectForeignKeys reads all foreign keys for a table
func (i *SQLiteIntrospector) introspectForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteSQLite(tableName))

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	// foreign_key_list returns one row per column; group them by id
	fkMap := make(map[int]*ForeignKey)
	var ids []int

	for rows.Next() {
		var id, seq int
		var table, from string
		var to sql.NullString
		var onUpdate, onDelete, match string

		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}

		fk, exists := fkMap[id]
		if !exists {
			fk = &ForeignKey{
				Name:            fmt.Sprintf("%s_fk_%d", tableName, id),
				ReferencedTable: table,
				OnUpdate:        onUpdate,
				OnDelete:        onDelete,
			}
			fkMap[id] = fk
			ids = append(ids, id)
		}
		fk.Columns = append(fk.Columns, from)
		fk.ReferencedColumns = append(fk.ReferencedColumns, to.String)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Ints(ids)
	fks := make([]ForeignKey, 0, len(ids))
	for _, id := range ids {
		fks = append(fks, *fkMap[id])
	}
	return fks, nil
}

func quoteSQLite(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// mapSQLiteType normalises a declared column type to its storage-class spelling.
func mapSQLiteType(sqliteType string) string {
	upper := strings.ToUpper(strings.TrimSpace(sqliteType))

	switch {
	case upper == "":
		return "BLOB"
	case strings.Contains(upper, "INT"):
		return "INTEGER"
	case strings.Contains(upper, "CHAR"), strings.Contains(upper, "CLOB"), strings.Contains(upper, "TEXT"):
		return "TEXT"
	case strings.Contains(upper, "BLOB"):
		return "BLOB"
	case strings.Contains(upper, "REAL"), strings.Contains(upper, "FLOA"), strings.Contains(upper, "DOUB"):
		return "REAL"
	case strings.Contains(upper, "BOOL"):
		return "BOOLEAN"
	case strings.Contains(upper, "DATE"), strings.Contains(upper, "TIME"):
		return upper
	default:
		return "NUMERIC"
	}
}
