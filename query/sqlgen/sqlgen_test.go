package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSelect(t *testing.T) {
	limit := 10
	offset := 5

	tests := []struct {
		name     string
		provider string
		columns  []string
		where    *WhereClause
		limit    *int
		offset   *int
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "select all",
			provider: "sqlite",
			wantSQL:  `SELECT * FROM "items"`,
		},
		{
			name:     "single column",
			provider: "sqlite",
			columns:  []string{"name"},
			wantSQL:  `SELECT "name" FROM "items"`,
		},
		{
			name:     "postgres placeholders",
			provider: "postgresql",
			where:    Where(Eq("id", 1), Gt("price", 9.5)),
			wantSQL:  `SELECT * FROM "items" WHERE "id" = $1 AND "price" > $2`,
			wantArgs: []interface{}{1, 9.5},
		},
		{
			name:     "mysql quoting",
			provider: "mysql",
			where:    Where(Eq("id", 1)),
			wantSQL:  "SELECT * FROM `items` WHERE `id` = ?",
			wantArgs: []interface{}{1},
		},
		{
			name:     "limit and offset",
			provider: "postgresql",
			limit:    &limit,
			offset:   &offset,
			wantSQL:  `SELECT * FROM "items" LIMIT $1 OFFSET $2`,
			wantArgs: []interface{}{10, 5},
		},
		{
			name:     "mysql offset without limit",
			provider: "mysql",
			offset:   &offset,
			wantSQL:  "SELECT * FROM `items` LIMIT 18446744073709551615 OFFSET ?",
			wantArgs: []interface{}{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewGenerator(tt.provider).GenerateSelect("items", tt.columns, tt.where, nil, tt.limit, tt.offset)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}

func TestGenerateCountMatchesSelectFilter(t *testing.T) {
	g := NewGenerator("postgresql")
	where := Where(Eq("kind", "a"), IsNull("deleted_at"))

	sel := g.GenerateSelect("items", nil, where, nil, nil, nil)
	cnt := g.GenerateCount("items", where)

	assert.Equal(t, `SELECT * FROM "items" WHERE "kind" = $1 AND "deleted_at" IS NULL`, sel.SQL)
	assert.Equal(t, `SELECT COUNT(*) FROM "items" WHERE "kind" = $1 AND "deleted_at" IS NULL`, cnt.SQL)
	assert.Equal(t, sel.Args, cnt.Args)
}

func TestNestedClauses(t *testing.T) {
	g := NewGenerator("postgresql")

	where := And(
		Where(Eq("k", 1)),
		Or(Where(Lt("age", 18)), Not(Where(Like("name", "a%")))),
	)
	q := g.GenerateSelect("t", nil, where, nil, nil, nil)

	assert.Equal(t, `SELECT * FROM "t" WHERE ("k" = $1) AND (("age" < $2) OR (NOT (("name" LIKE $3))))`, q.SQL)
	assert.Equal(t, []interface{}{1, 18, "a%"}, q.Args)
}

func TestAndSkipsEmpty(t *testing.T) {
	base := Where(Eq("k", 1))

	assert.Nil(t, And(nil, NewWhereClause()))
	assert.Same(t, base, And(nil, base))
	assert.Equal(t, []string{"k"}, And(base, nil).Fields())
}

func TestInConditions(t *testing.T) {
	g := NewGenerator("sqlite")

	q := g.GenerateSelect("t", nil, Where(In("id", 1, 2, 3)), nil, nil, nil)
	assert.Equal(t, `SELECT * FROM "t" WHERE "id" IN (?, ?, ?)`, q.SQL)
	assert.Equal(t, []interface{}{1, 2, 3}, q.Args)

	q = g.GenerateSelect("t", nil, Where(In("id")), nil, nil, nil)
	assert.Equal(t, `SELECT * FROM "t" WHERE 1 = 0`, q.SQL)
}

func TestQuoteIdentifierEscapes(t *testing.T) {
	assert.Equal(t, `"we""ird"`, NewGenerator("sqlite").QuoteIdentifier(`we"ird`))
	assert.Equal(t, "`we``ird`", NewGenerator("mysql").QuoteIdentifier("we`ird"))
}
