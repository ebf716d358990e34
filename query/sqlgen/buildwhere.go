// Package sqlgen provides WHERE clause building logic.
package sqlgen

import (
	"fmt"
	"strings"
)

// buildWhereRecursive builds a WHERE clause with support for nested conditions
func buildWhereRecursive(where *WhereClause, argIndex *int, placeholder func(int) string, quoter func(string) string) (string, []interface{}) {
	if where == nil || where.IsEmpty() {
		return "", nil
	}

	var parts []string
	var args []interface{}

	for _, cond := range where.Conditions {
		condSQL, condArgs := buildCondition(cond, argIndex, placeholder, quoter)
		if condSQL != "" {
			parts = append(parts, condSQL)
			args = append(args, condArgs...)
		}
	}

	for _, group := range where.Groups {
		groupSQL, groupArgs := buildWhereRecursive(group, argIndex, placeholder, quoter)
		if groupSQL != "" {
			parts = append(parts, fmt.Sprintf("(%s)", groupSQL))
			args = append(args, groupArgs...)
		}
	}

	if len(parts) == 0 {
		return "", nil
	}

	op := "AND"
	if where.Operator == "OR" || where.Operator == "or" {
		op = "OR"
	}

	result := strings.Join(parts, " "+op+" ")
	if where.IsNot {
		result = "NOT (" + result + ")"
	}

	return result, args
}

// buildCondition builds a single condition
func buildCondition(cond Condition, argIndex *int, placeholder func(int) string, quoter func(string) string) (string, []interface{}) {
	var args []interface{}
	var sql string

	switch cond.Operator {
	case "=", "!=", ">", "<", ">=", "<=":
		sql = fmt.Sprintf("%s %s %s", quoter(cond.Field), cond.Operator, placeholder(*argIndex))
		args = append(args, cond.Value)
		(*argIndex)++

	case "IN", "NOT IN":
		values, _ := cond.Value.([]interface{})
		if len(values) == 0 {
			// an empty list matches nothing (IN) or everything (NOT IN)
			if cond.Operator == "IN" {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = placeholder(*argIndex)
			args = append(args, values[i])
			(*argIndex)++
		}
		sql = fmt.Sprintf("%s %s (%s)", quoter(cond.Field), cond.Operator, strings.Join(placeholders, ", "))

	case "LIKE":
		sql = fmt.Sprintf("%s LIKE %s", quoter(cond.Field), placeholder(*argIndex))
		args = append(args, cond.Value)
		(*argIndex)++

	case "IS NULL":
		sql = fmt.Sprintf("%s IS NULL", quoter(cond.Field))

	case "IS NOT NULL":
		sql = fmt.Sprintf("%s IS NOT NULL", quoter(cond.Field))
	}

	return sql, args
}
