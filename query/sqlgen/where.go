// Package sqlgen provides WHERE clause structures.
package sqlgen

// WhereClause represents a WHERE condition (can be nested)
type WhereClause struct {
	Conditions []Condition
	Groups     []*WhereClause // Nested WHERE clauses for AND/OR/NOT
	Operator   string         // "AND" or "OR"
	IsNot      bool           // true for NOT conditions
}

// Condition represents a single filter condition
type Condition struct {
	Field    string
	Operator string // "=", "!=", ">", "<", ">=", "<=", "IN", "NOT IN", "LIKE", "IS NULL", "IS NOT NULL"
	Value    interface{}
}

// NewWhereClause creates a new WHERE clause
func NewWhereClause() *WhereClause {
	return &WhereClause{
		Conditions: []Condition{},
		Groups:     []*WhereClause{},
		Operator:   "AND",
	}
}

// Where builds an AND clause from conditions.
func Where(conditions ...Condition) *WhereClause {
	w := NewWhereClause()
	w.Conditions = append(w.Conditions, conditions...)
	return w
}

// Eq is field = value.
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: "=", Value: value}
}

// Neq is field != value.
func Neq(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: "!=", Value: value}
}

// Gt is field > value.
func Gt(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: ">", Value: value}
}

// Gte is field >= value.
func Gte(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: ">=", Value: value}
}

// Lt is field < value.
func Lt(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: "<", Value: value}
}

// Lte is field <= value.
func Lte(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: "<=", Value: value}
}

// Like is field LIKE pattern.
func Like(field string, pattern string) Condition {
	return Condition{Field: field, Operator: "LIKE", Value: pattern}
}

// In is field IN (values...).
func In(field string, values ...interface{}) Condition {
	return Condition{Field: field, Operator: "IN", Value: values}
}

// IsNull is field IS NULL.
func IsNull(field string) Condition {
	return Condition{Field: field, Operator: "IS NULL"}
}

// And combines clauses so that all must hold. Nil and empty clauses are skipped;
// a single remaining clause is returned as-is. The inputs are not modified.
func And(clauses ...*WhereClause) *WhereClause {
	return combine("AND", clauses)
}

// Or combines clauses so that any may hold.
func Or(clauses ...*WhereClause) *WhereClause {
	return combine("OR", clauses)
}

// Not negates a clause.
func Not(clause *WhereClause) *WhereClause {
	if clause == nil || clause.IsEmpty() {
		return clause
	}
	w := NewWhereClause()
	w.IsNot = true
	w.AddGroup(clause)
	return w
}

func combine(op string, clauses []*WhereClause) *WhereClause {
	var nonEmpty []*WhereClause
	for _, c := range clauses {
		if c != nil && !c.IsEmpty() {
			nonEmpty = append(nonEmpty, c)
		}
	}

	switch len(nonEmpty) {
	case 0:
		return nil
	case 1:
		return nonEmpty[0]
	}

	w := NewWhereClause()
	w.Operator = op
	w.Groups = nonEmpty
	return w
}

// AddCondition adds a condition to the WHERE clause
func (w *WhereClause) AddCondition(condition Condition) {
	w.Conditions = append(w.Conditions, condition)
}

// AddGroup adds a nested WHERE clause
func (w *WhereClause) AddGroup(group *WhereClause) {
	w.Groups = append(w.Groups, group)
}

// SetOperator sets the logical operator
func (w *WhereClause) SetOperator(op string) {
	w.Operator = op
}

// SetNot sets the NOT flag
func (w *WhereClause) SetNot(isNot bool) {
	w.IsNot = isNot
}

// IsEmpty returns true if the WHERE clause is empty
func (w *WhereClause) IsEmpty() bool {
	return len(w.Conditions) == 0 && len(w.Groups) == 0
}

// Fields lists every column referenced by the clause, depth first.
func (w *WhereClause) Fields() []string {
	if w == nil {
		return nil
	}
	var fields []string
	for _, c := range w.Conditions {
		fields = append(fields, c.Field)
	}
	for _, g := range w.Groups {
		fields = append(fields, g.Fields()...)
	}
	return fields
}
