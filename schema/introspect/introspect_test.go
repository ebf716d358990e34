package introspect

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "introspect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE authors (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email VARCHAR(255) DEFAULT 'none'
		);
		CREATE UNIQUE INDEX authors_email ON authors (email);
		CREATE TABLE books (
			id INTEGER,
			edition INTEGER,
			author_id INTEGER REFERENCES authors (id) ON DELETE CASCADE,
			price REAL,
			PRIMARY KEY (id, edition)
		);
	`)
	require.NoError(t, err)
	return db
}

func TestSQLiteTableNames(t *testing.T) {
	in, err := NewIntrospector(openSQLite(t), "sqlite")
	require.NoError(t, err)

	names, err := in.TableNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"authors", "books"}, names)
}

func TestSQLiteIntrospectTable(t *testing.T) {
	in, err := NewIntrospector(openSQLite(t), "sqlite3")
	require.NoError(t, err)

	authors, err := in.IntrospectTable(context.Background(), "authors")
	require.NoError(t, err)

	require.Len(t, authors.Columns, 3)
	assert.Equal(t, "id", authors.Columns[0].Name)
	assert.Equal(t, 1, authors.Columns[0].Position)
	assert.True(t, authors.Columns[0].PrimaryKey)
	assert.True(t, authors.Columns[0].AutoIncrement)
	assert.False(t, authors.Columns[1].Nullable)
	assert.Equal(t, "TEXT", authors.Columns[2].Type)
	require.NotNil(t, authors.Columns[2].DefaultValue)
	assert.Equal(t, "'none'", *authors.Columns[2].DefaultValue)

	require.NotNil(t, authors.PrimaryKey)
	assert.Equal(t, []string{"id"}, authors.PrimaryKey.Columns)

	require.Len(t, authors.Indexes, 1)
	assert.Equal(t, "authors_email", authors.Indexes[0].Name)
	assert.True(t, authors.Indexes[0].IsUnique)
	assert.Equal(t, []string{"email"}, authors.Indexes[0].Columns)
}

func TestSQLiteCompositeKeyAndForeignKey(t *testing.T) {
	in, err := NewIntrospector(openSQLite(t), "sqlite")
	require.NoError(t, err)

	books, err := in.IntrospectTable(context.Background(), "books")
	require.NoError(t, err)

	require.NotNil(t, books.PrimaryKey)
	assert.Equal(t, []string{"id", "edition"}, books.PrimaryKey.Columns)
	assert.False(t, books.Columns[0].AutoIncrement)
	assert.Empty(t, books.Indexes)

	require.Len(t, books.ForeignKeys, 1)
	fk := books.ForeignKeys[0]
	assert.Equal(t, []string{"author_id"}, fk.Columns)
	assert.Equal(t, "authors", fk.ReferencedTable)
	assert.Equal(t, []string{"id"}, fk.ReferencedColumns)
	assert.Equal(t, "CASCADE", fk.OnDelete)
}

func TestSQLiteMissingTable(t *testing.T) {
	in, err := NewIntrospector(openSQLite(t), "sqlite")
	require.NoError(t, err)

	_, err = in.IntrospectTable(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestIntrospectAll(t *testing.T) {
	in, err := NewIntrospector(openSQLite(t), "sqlite")
	require.NoError(t, err)

	s, err := Introspect(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, s.Tables, 2)
	assert.Equal(t, "books", s.Tables[1].Name)
}

func TestNewIntrospectorUnsupported(t *testing.T) {
	_, err := NewIntrospector(nil, "mongodb")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestTypeMapping(t *testing.T) {
	assert.Equal(t, "INTEGER", mapSQLiteType("bigint"))
	assert.Equal(t, "TEXT", mapSQLiteType("varchar(10)"))
	assert.Equal(t, "REAL", mapSQLiteType("double"))
	assert.Equal(t, "BLOB", mapSQLiteType(""))
	assert.Equal(t, "NUMERIC", mapSQLiteType("decimal(10,2)"))

	assert.Equal(t, "VARCHAR(40)", mapPostgresType("character varying", "varchar", 40, 0, 0))
	assert.Equal(t, "int4[]", mapPostgresType("ARRAY", "_int4", 0, 0, 0))
	assert.Equal(t, "mood", mapPostgresType("USER-DEFINED", "mood", 0, 0, 0))
	assert.True(t, isAutoIncrement("nextval('t_id_seq'::regclass)", "INTEGER"))

	assert.Equal(t, "BOOLEAN", mapMySQLType("tinyint(1)"))
	assert.Equal(t, "varchar(20)", mapMySQLType("varchar(20)"))
}
