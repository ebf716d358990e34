// Package filter parses textual row filters such as
//
//	age >= 18 AND (status = 'active' OR status IS NULL)
//
// into sqlgen WHERE clauses. Column names are emitted as bound identifiers and
// every literal becomes a query argument, so filter text never reaches SQL verbatim.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/sqldol/query/sqlgen"
)

// ErrSyntax wraps every parse failure.
var ErrSyntax = errors.New("invalid filter expression")

// Parse turns a filter expression into a WHERE clause. An empty or blank
// expression yields nil, meaning "all rows".
func Parse(expr string) (*sqlgen.WhereClause, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	ast, err := parser.ParseString("filter", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	return ast.clause()
}

// MustParse is Parse for expressions known to be valid; it panics otherwise.
func MustParse(expr string) *sqlgen.WhereClause {
	w, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return w
}

// ParseValue reads a single literal the way the grammar does: integers, floats,
// TRUE/FALSE, NULL (nil) and 'quoted' strings. Anything else is returned as the raw string.
func ParseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	case "NULL":
		return nil
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return unquote(s, '\'')
	}
	return s
}

func (e *orExpr) clause() (*sqlgen.WhereClause, error) {
	left, err := e.Left.clause()
	if err != nil {
		return nil, err
	}
	if len(e.Right) == 0 {
		return left, nil
	}

	w := sqlgen.NewWhereClause()
	w.SetOperator("OR")
	w.AddGroup(left)
	for _, r := range e.Right {
		g, err := r.clause()
		if err != nil {
			return nil, err
		}
		w.AddGroup(g)
	}
	return w, nil
}

func (e *andExpr) clause() (*sqlgen.WhereClause, error) {
	w := sqlgen.NewWhereClause()
	for _, u := range append([]*unaryExpr{e.Left}, e.Right...) {
		if err := u.addTo(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// addTo appends u to an AND clause: plain comparisons become conditions,
// groups and negations become nested clauses.
func (u *unaryExpr) addTo(w *sqlgen.WhereClause) error {
	if u.Cmp != nil && !u.Not {
		cond, err := u.Cmp.condition()
		if err != nil {
			return err
		}
		w.AddCondition(cond)
		return nil
	}

	var inner *sqlgen.WhereClause
	if u.Group != nil {
		g, err := u.Group.clause()
		if err != nil {
			return err
		}
		inner = g
	} else {
		cond, err := u.Cmp.condition()
		if err != nil {
			return err
		}
		inner = sqlgen.Where(cond)
	}

	if u.Not {
		inner = sqlgen.Not(inner)
	}
	w.AddGroup(inner)
	return nil
}

func (c *comparison) condition() (sqlgen.Condition, error) {
	field := c.Field
	if strings.HasPrefix(field, `"`) {
		field = unquote(field, '"')
	}

	switch {
	case c.IsNull != nil:
		op := "IS NULL"
		if c.IsNull.Not {
			op = "IS NOT NULL"
		}
		return sqlgen.Condition{Field: field, Operator: op}, nil

	case c.In != nil:
		values := make([]interface{}, len(c.In.Values))
		for i, lit := range c.In.Values {
			v, err := lit.value()
			if err != nil {
				return sqlgen.Condition{}, err
			}
			values[i] = v
		}
		op := "IN"
		if c.In.Not {
			op = "NOT IN"
		}
		return sqlgen.Condition{Field: field, Operator: op, Value: values}, nil

	default:
		v, err := c.Value.value()
		if err != nil {
			return sqlgen.Condition{}, err
		}
		op := strings.ToUpper(c.Op)
		if op == "<>" {
			op = "!="
		}
		return sqlgen.Condition{Field: field, Operator: op, Value: v}, nil
	}
}

func (l *literal) value() (any, error) {
	switch {
	case l.Number != nil:
		if !strings.Contains(*l.Number, ".") {
			i, err := strconv.ParseInt(*l.Number, 10, 64)
			if err == nil {
				return i, nil
			}
		}
		f, err := strconv.ParseFloat(*l.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, *l.Number)
		}
		return f, nil
	case l.String != nil:
		return unquote(*l.String, '\''), nil
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "TRUE"), nil
	default:
		return nil, fmt.Errorf("%w: missing value", ErrSyntax)
	}
}

// unquote strips the surrounding quote characters and collapses doubled ones.
func unquote(s string, q byte) string {
	s = s[1 : len(s)-1]
	return strings.ReplaceAll(s, string(q)+string(q), string(q))
}
