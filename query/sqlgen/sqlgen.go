// Package sqlgen generates SQL for different database providers.
package sqlgen

import (
	"fmt"
	"strings"
)

// Query represents a SQL query with arguments
type Query struct {
	SQL  string
	Args []interface{}
}

// Generator generates SQL for a specific provider
type Generator interface {
	// GenerateSelect builds SELECT over table. No columns means SELECT *.
	GenerateSelect(table string, columns []string, where *WhereClause, orderBy []OrderBy, limit, offset *int) *Query
	// GenerateCount builds SELECT COUNT(*) over the same rows GenerateSelect would return.
	GenerateCount(table string, where *WhereClause) *Query
	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string
}

// OrderBy represents an ORDER BY clause
type OrderBy struct {
	Field     string
	Direction string // "ASC" or "DESC"
}

// NewGenerator creates a new SQL generator for the given provider
func NewGenerator(provider string) Generator {
	switch provider {
	case "postgresql", "postgres":
		return &generator{
			placeholder: func(i int) string { return fmt.Sprintf("$%d", i) },
			quote:       quoteWith(`"`),
		}
	case "mysql":
		return &generator{
			placeholder:      func(int) string { return "?" },
			quote:            quoteWith("`"),
			offsetNeedsLimit: true,
		}
	case "sqlite", "sqlite3":
		return &generator{
			placeholder: func(int) string { return "?" },
			quote:       quoteWith(`"`),
		}
	default:
		return NewGenerator("postgresql") // default to postgres
	}
}

// generator holds the only things that differ between providers for reads:
// placeholder style and identifier quoting.
type generator struct {
	placeholder      func(int) string
	quote            func(string) string
	offsetNeedsLimit bool
}

func (g *generator) QuoteIdentifier(name string) string {
	return g.quote(name)
}

func (g *generator) GenerateSelect(table string, columns []string, where *WhereClause, orderBy []OrderBy, limit, offset *int) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	if len(columns) == 0 {
		parts = append(parts, "SELECT *")
	} else {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = g.quote(col)
		}
		parts = append(parts, "SELECT "+strings.Join(quoted, ", "))
	}

	parts = append(parts, "FROM "+g.quote(table))

	if whereSQL, whereArgs := buildWhereRecursive(where, &argIndex, g.placeholder, g.quote); whereSQL != "" {
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	if len(orderBy) > 0 {
		orderParts := make([]string, len(orderBy))
		for i, ob := range orderBy {
			direction := "ASC"
			if ob.Direction == "DESC" || ob.Direction == "desc" {
				direction = "DESC"
			}
			orderParts[i] = fmt.Sprintf("%s %s", g.quote(ob.Field), direction)
		}
		parts = append(parts, "ORDER BY "+strings.Join(orderParts, ", "))
	}

	if limit != nil && *limit > 0 {
		parts = append(parts, "LIMIT "+g.placeholder(argIndex))
		args = append(args, *limit)
		argIndex++
	}

	if offset != nil && *offset > 0 {
		if g.offsetNeedsLimit && (limit == nil || *limit == 0) {
			// MySQL requires LIMIT when using OFFSET
			parts = append(parts, "LIMIT 18446744073709551615")
		}
		parts = append(parts, "OFFSET "+g.placeholder(argIndex))
		args = append(args, *offset)
	}

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: args,
	}
}

func (g *generator) GenerateCount(table string, where *WhereClause) *Query {
	argIndex := 1
	sql := "SELECT COUNT(*) FROM " + g.quote(table)

	whereSQL, args := buildWhereRecursive(where, &argIndex, g.placeholder, g.quote)
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
	}

	return &Query{SQL: sql, Args: args}
}

// quoteWith returns a quoter that wraps names in q, doubling any embedded q.
func quoteWith(q string) func(string) string {
	return func(name string) string {
		return q + strings.ReplaceAll(name, q, q+q) + q
	}
}
