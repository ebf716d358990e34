package filter

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer tokenises filter expressions. Keywords must precede Ident.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IS|NULL|IN|LIKE|TRUE|FALSE)\b`},
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "QuotedIdent", Pattern: `"(?:""|[^"])*"`},
	{Name: "Operator", Pattern: `!=|<>|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type orExpr struct {
	Left  *andExpr   `@@`
	Right []*andExpr `( "OR" @@ )*`
}

type andExpr struct {
	Left  *unaryExpr   `@@`
	Right []*unaryExpr `( "AND" @@ )*`
}

type unaryExpr struct {
	Not   bool        `@"NOT"?`
	Group *orExpr     `( "(" @@ ")"`
	Cmp   *comparison `| @@ )`
}

type comparison struct {
	Field  string    `( @Ident | @QuotedIdent )`
	Op     string    `( @( "=" | "!=" | "<>" | "<=" | ">=" | "<" | ">" | "LIKE" )`
	Value  *literal  `  @@`
	IsNull *nullTest `| @@`
	In     *inList   `| @@ )`
}

type nullTest struct {
	Not bool `"IS" @"NOT"? "NULL"`
}

type inList struct {
	Not    bool       `@"NOT"? "IN" "("`
	Values []*literal `@@ ( "," @@ )* ")"`
}

type literal struct {
	Number *string `  @Number`
	String *string `| @String`
	Bool   *string `| @( "TRUE" | "FALSE" )`
}

var parser = participle.MustBuild[orExpr](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)
