package filter

import (
	"testing"

	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, expr string) *sqlgen.Query {
	t.Helper()
	w, err := Parse(expr)
	require.NoError(t, err)
	return sqlgen.NewGenerator("postgresql").GenerateSelect("t", nil, w, nil, nil, nil)
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr     string
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			expr:     "age >= 18",
			wantSQL:  `SELECT * FROM "t" WHERE "age" >= $1`,
			wantArgs: []interface{}{int64(18)},
		},
		{
			expr:     "age >= 18 and name like 'a%'",
			wantSQL:  `SELECT * FROM "t" WHERE "age" >= $1 AND "name" LIKE $2`,
			wantArgs: []interface{}{int64(18), "a%"},
		},
		{
			expr:     "price < 9.5 OR price IS NULL",
			wantSQL:  `SELECT * FROM "t" WHERE ("price" < $1) OR ("price" IS NULL)`,
			wantArgs: []interface{}{9.5},
		},
		{
			expr:     "kind IN ('a', 'b') AND deleted_at IS NOT NULL",
			wantSQL:  `SELECT * FROM "t" WHERE "kind" IN ($1, $2) AND "deleted_at" IS NOT NULL`,
			wantArgs: []interface{}{"a", "b"},
		},
		{
			expr:     "id NOT IN (1, 2)",
			wantSQL:  `SELECT * FROM "t" WHERE "id" NOT IN ($1, $2)`,
			wantArgs: []interface{}{int64(1), int64(2)},
		},
		{
			expr:     "NOT (a = 1 OR b <> 2)",
			wantSQL:  `SELECT * FROM "t" WHERE (NOT ((("a" = $1) OR ("b" != $2))))`,
			wantArgs: []interface{}{int64(1), int64(2)},
		},
		{
			expr:     `"Full Name" = 'O''Brien' AND active = true`,
			wantSQL:  `SELECT * FROM "t" WHERE "Full Name" = $1 AND "active" = $2`,
			wantArgs: []interface{}{"O'Brien", true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			q := render(t, tt.expr)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	w, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"age >=",
		"= 3",
		"a = 1 AND",
		"a IN ()",
		"(a = 1",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(42), ParseValue("42"))
	assert.Equal(t, 4.5, ParseValue("4.5"))
	assert.Equal(t, true, ParseValue("TRUE"))
	assert.Equal(t, "x y", ParseValue("'x y'"))
	assert.Equal(t, "plain", ParseValue("plain"))
	assert.Nil(t, ParseValue("null"))
	assert.Equal(t, "NULL", ParseValue("'NULL'"))
}
