package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresIntrospector implements introspection for PostgreSQL.
// Schema selects the namespace; NewIntrospector sets it to "public".
type PostgresIntrospector struct {
	db     Querier
	Schema string
}

func (i *PostgresIntrospector) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := i.db.QueryContext(ctx, query, i.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return collectStrings(rows)
}

func (i *PostgresIntrospector) IntrospectTable(ctx context.Context, name string) (*Table, error) {
	table := &Table{Name: name, Schema: i.Schema}

	columns, err := i.introspectColumns(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect columns for %s: %w", name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	table.Columns = columns

	if table.PrimaryKey, err = i.introspectPrimaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to introspect primary key for %s: %w", name, err)
	}
	markPrimaryKey(table.Columns, table.PrimaryKey)

	if table.Indexes, err = i.introspectIndexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to introspect indexes for %s: %w", name, err)
	}
	if table.ForeignKeys, err = i.introspectForeignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to introspect foreign keys for %s: %w", name, err)
	}

	return table, nil
}

func (i *PostgresIntrospector) introspectColumns(ctx context.Context, tableName string) ([]Column, error) {
	query := `
		SELECT
			column_name,
			data_type,
			udt_name,
			is_nullable,
			column_default,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, i.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var dataType, udtName, isNullable string
		var defaultValue sql.NullString
		var maxLength, numPrecision, numScale sql.NullInt64

		err := rows.Scan(
			&col.Name,
			&dataType,
			&udtName,
			&isNullable,
			&defaultValue,
			&maxLength,
			&numPrecision,
			&numScale,
			&col.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.Type = mapPostgresType(dataType, udtName, maxLength.Int64, numPrecision.Int64, numScale.Int64)
		col.Nullable = isNullable == "YES"
		if defaultValue.Valid && defaultValue.String != "" {
			col.DefaultValue = &defaultValue.String
		}
		col.AutoIncrement = isAutoIncrement(defaultValue.String, col.Type)

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (i *PostgresIntrospector) introspectPrimaryKey(ctx context.Context, tableName string) (*PrimaryKey, error) {
	query := `
		SELECT
			tc.constraint_name,
			array_agg(kcu.column_name::text ORDER BY kcu.ordinal_position)
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		GROUP BY tc.constraint_name
	`

	var pk PrimaryKey
	err := i.db.QueryRowContext(ctx, query, i.Schema, tableName).Scan(&pk.Name, pq.Array(&pk.Columns))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key: %w", err)
	}
	return &pk, nil
}

func (i *PostgresIntrospector) introspectIndexes(ctx context.Context, tableName string) ([]Index, error) {
	query := `
		SELECT
			i.relname,
			array_agg(a.attname::text ORDER BY array_position(ix.indkey, a.attnum)),
			ix.indisunique
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE n.nspname = $1
		  AND t.relname = $2
		  AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`

	rows, err := i.db.QueryContext(ctx, query, i.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var idx Index
		if err := rows.Scan(&idx.Name, pq.Array(&idx.Columns), &idx.IsUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		indexes = append(indexes, idx)
	}

	return indexes, rows.Err()
}

func (i *PostgresIntrospector) introspectForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			tc.constraint_name,
			array_agg(kcu.column_name::text ORDER BY kcu.ordinal_position),
			ccu.table_name,
			array_agg(ccu.column_name::text ORDER BY kcu.ordinal_position),
			rc.update_rule,
			rc.delete_rule
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		GROUP BY tc.constraint_name, ccu.table_name, rc.update_rule, rc.delete_rule
		ORDER BY tc.constraint_name
	`

	rows, err := i.db.QueryContext(ctx, query, i.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		err := rows.Scan(
			&fk.Name,
			pq.Array(&fk.Columns),
			&fk.ReferencedTable,
			pq.Array(&fk.ReferencedColumns),
			&fk.OnUpdate,
			&fk.OnDelete,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}

// mapPostgresType maps PostgreSQL data types to their SQL spelling
func mapPostgresType(dataType, udtName string, maxLength, precision, scale int64) string {
	switch dataType {
	case "integer":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "smallint":
		return "SMALLINT"
	case "boolean":
		return "BOOLEAN"
	case "character varying":
		if maxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", maxLength)
		}
		return "VARCHAR"
	case "character":
		if maxLength > 0 {
			return fmt.Sprintf("CHAR(%d)", maxLength)
		}
		return "CHAR"
	case "text":
		return "TEXT"
	case "numeric":
		if precision > 0 && scale > 0 {
			return fmt.Sprintf("DECIMAL(%d,%d)", precision, scale)
		}
		return "DECIMAL"
	case "real":
		return "REAL"
	case "double precision":
		return "DOUBLE PRECISION"
	case "timestamp without time zone":
		return "TIMESTAMP"
	case "timestamp with time zone":
		return "TIMESTAMPTZ"
	case "date":
		return "DATE"
	case "time without time zone":
		return "TIME"
	case "json":
		return "JSON"
	case "jsonb":
		return "JSONB"
	case "uuid":
		return "UUID"
	case "bytea":
		return "BYTEA"
	case "ARRAY":
		return strings.TrimPrefix(udtName, "_") + "[]"
	case "USER-DEFINED":
		// enums and domains
		return udtName
	default:
		return strings.ToUpper(dataType)
	}
}

// isAutoIncrement reports serial / identity-by-sequence columns.
func isAutoIncrement(defaultValue, dataType string) bool {
	if defaultValue == "" {
		return false
	}
	return strings.Contains(dataType, "SERIAL") || strings.Contains(strings.ToLower(defaultValue), "nextval(")
}

// markPrimaryKey flags the columns named by pk.
func markPrimaryKey(columns []Column, pk *PrimaryKey) {
	if pk == nil {
		return
	}
	for n := range columns {
		for _, name := range pk.Columns {
			if columns[n].Name == name {
				columns[n].PrimaryKey = true
			}
		}
	}
}
