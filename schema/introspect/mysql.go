package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// MySQLIntrospector implements introspection for MySQL, scoped to the
// connection's current database.
type MySQLIntrospector struct {
	db Querier
}

func (i *MySQLIntrospector) database(ctx context.Context) (string, error) {
	var dbName sql.NullString
	if err := i.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&dbName); err != nil {
		return "", fmt.Errorf("failed to get database name: %w", err)
	}
	if !dbName.Valid {
		return "", errors.New("no database selected")
	}
	return dbName.String, nil
}

func (i *MySQLIntrospector) TableNames(ctx context.Context) ([]string, error) {
	dbName, err := i.database(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := i.db.QueryContext(ctx, query, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return collectStrings(rows)
}

func (i *MySQLIntrospector) IntrospectTable(ctx context.Context, name string) (*Table, error) {
	dbName, err := i.database(ctx)
	if err != nil {
		return nil, err
	}
	table := &Table{Name: name, Schema: dbName}

	columns, err := i.introspectColumns(ctx, dbName, name)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect columns for %s: %w", name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	table.Columns = columns

	if table.PrimaryKey, err = i.introspectPrimaryKey(ctx, dbName, name); err != nil {
		return nil, fmt.Errorf("failed to introspect primary key for %s: %w", name, err)
	}
	markPrimaryKey(table.Columns, table.PrimaryKey)

	if table.Indexes, err = i.introspectIndexes(ctx, dbName, name); err != nil {
		return nil, fmt.Errorf("failed to introspect indexes for %s: %w", name, err)
	}
	if table.ForeignKeys, err = i.introspectForeignKeys(ctx, dbName, name); err != nil {
		return nil, fmt.Errorf("failed to introspect foreign keys for %s: %w", name, err)
	}

	return table, nil
}

func (i *MySQLIntrospector) introspectColumns(ctx context.Context, schema, tableName string) ([]Column, error) {
	query := `
		SELECT
			column_name,
			column_type,
			is_nullable,
			column_default,
			extra,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var columnType, isNullable, extra string
		var defaultValue sql.NullString

		if err := rows.Scan(&col.Name, &columnType, &isNullable, &defaultValue, &extra, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.Type = mapMySQLType(columnType)
		col.Nullable = isNullable == "YES"
		if defaultValue.Valid && defaultValue.String != "" {
			col.DefaultValue = &defaultValue.String
		}
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (i *MySQLIntrospector) introspectPrimaryKey(ctx context.Context, schema, tableName string) (*PrimaryKey, error) {
	query := `
		SELECT
			constraint_name,
			GROUP_CONCAT(column_name ORDER BY ordinal_position)
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
		  AND table_name = ?
		  AND constraint_name = 'PRIMARY'
		GROUP BY constraint_name
	`

	var pk PrimaryKey
	var columnsStr string

	err := i.db.QueryRowContext(ctx, query, schema, tableName).Scan(&pk.Name, &columnsStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key: %w", err)
	}

	pk.Columns = strings.Split(columnsStr, ",")
	return &pk, nil
}

func (i *MySQLIntrospector) introspectIndexes(ctx context.Context, schema, tableName string) ([]Index, error) {
	query := `
		SELECT
			index_name,
			GROUP_CONCAT(column_name ORDER BY seq_in_index),
			MAX(non_unique)
		FROM information_schema.statistics
		WHERE table_schema = ?
		  AND table_name = ?
		  AND index_name != 'PRIMARY'
		GROUP BY index_name
		ORDER BY index_name
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var idx Index
		var columnsStr string
		var nonUnique int

		if err := rows.Scan(&idx.Name, &columnsStr, &nonUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx.Columns = strings.Split(columnsStr, ",")
		idx.IsUnique = nonUnique == 0
		indexes = append(indexes, idx)
	}

	return indexes, rows.Err()
}

func (i *MySQLIntrospector) introspectForeignKeys(ctx context.Context, schema, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			kcu.constraint_name,
			GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position),
			kcu.referenced_table_name,
			GROUP_CONCAT(kcu.referenced_column_name ORDER BY kcu.ordinal_position),
			rc.update_rule,
			rc.delete_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON kcu.constraint_name = rc.constraint_name
			AND kcu.constraint_schema = rc.constraint_schema
		WHERE kcu.table_schema = ?
		  AND kcu.table_name = ?
		  AND kcu.referenced_table_name IS NOT NULL
		GROUP BY kcu.constraint_name, kcu.referenced_table_name, rc.update_rule, rc.delete_rule
		ORDER BY kcu.constraint_name
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		var columnsStr, refColumnsStr string

		err := rows.Scan(&fk.Name, &columnsStr, &fk.ReferencedTable, &refColumnsStr, &fk.OnUpdate, &fk.OnDelete)
		if err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fk.Columns = strings.Split(columnsStr, ",")
		fk.ReferencedColumns = strings.Split(refColumnsStr, ",")
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}

// mapMySQLType maps MySQL column types to their SQL spelling
func mapMySQLType(mysqlType string) string {
	lowerType := strings.ToLower(mysqlType)

	switch {
	case lowerType == "int" || strings.HasPrefix(lowerType, "int("):
		return "INT"
	case strings.HasPrefix(lowerType, "bigint"):
		return "BIGINT"
	case strings.HasPrefix(lowerType, "smallint"):
		return "SMALLINT"
	case strings.HasPrefix(lowerType, "tinyint(1)"):
		return "BOOLEAN"
	case strings.HasPrefix(lowerType, "tinyint"):
		return "TINYINT"
	case lowerType == "text":
		return "TEXT"
	case strings.HasPrefix(lowerType, "float"):
		return "FLOAT"
	case strings.HasPrefix(lowerType, "double"):
		return "DOUBLE"
	case strings.HasPrefix(lowerType, "timestamp"):
		return "TIMESTAMP"
	case lowerType == "datetime", lowerType == "date", lowerType == "time", lowerType == "json":
		return strings.ToUpper(lowerType)
	case strings.HasPrefix(lowerType, "blob"):
		return "BLOB"
	default:
		// varchar(n), char(n), decimal(p,s), enum(...) keep their full spelling
		return mysqlType
	}
}
