package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantDialect Dialect
		wantDSN     string
	}{
		{"postgres", "postgres://u:p@localhost:5432/app?sslmode=disable", Postgres, "postgres://u:p@localhost:5432/app?sslmode=disable"},
		{"postgresql scheme", "postgresql://u@db/app", Postgres, "postgres://u@db/app"},
		{"postgresql with driver", "postgresql+psycopg2://u@db/app", Postgres, "postgres://u@db/app"},
		{"sqlite relative", "sqlite:///data.db", SQLite, "data.db"},
		{"sqlite absolute", "sqlite:////var/lib/data.db", SQLite, "/var/lib/data.db"},
		{"sqlite memory", "sqlite:///:memory:", SQLite, sharedMemory},
		{"sqlite bare", "sqlite://", SQLite, sharedMemory},
		{"sqlite with query", "sqlite3:///data.db?mode=ro", SQLite, "file:data.db?mode=ro"},
		{"file dsn", "file:test.db?cache=shared", SQLite, "file:test.db?cache=shared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, dsn, err := ParseURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestParseURL_MySQL(t *testing.T) {
	dialect, dsn, err := ParseURL("mysql://root:secret@db:3307/app?charset=utf8mb4")
	require.NoError(t, err)
	assert.Equal(t, MySQL, dialect)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db:3307", cfg.Addr)
	assert.Equal(t, "app", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestParseURL_MySQLDefaultPort(t *testing.T) {
	_, dsn, err := ParseURL("mysql://root@db/app")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Addr)
}

func TestParseURL_Errors(t *testing.T) {
	_, _, err := ParseURL("not a url")
	assert.True(t, errors.Is(err, ErrInvalidURL))

	_, _, err = ParseURL("oracle://scott:tiger@db/orcl")
	assert.True(t, errors.Is(err, ErrUnsupportedDialect))
}

func TestParseDialect(t *testing.T) {
	for provider, want := range map[string]Dialect{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"mysql":      MySQL,
		"sqlite3":    SQLite,
	} {
		got, err := ParseDialect(provider)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDialect("mongodb")
	assert.Error(t, err)
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	url := URL("sqlite:///" + filepath.Join(t.TempDir(), "ensure.db"))

	eng, err := Ensure(ctx, url)
	require.NoError(t, err)
	defer eng.Close()
	assert.Equal(t, SQLite, eng.Dialect())
	assert.True(t, Owned(url))

	same, err := Ensure(ctx, eng)
	require.NoError(t, err)
	assert.Same(t, eng, same)
	assert.False(t, Owned(eng))

	_, err = Ensure(ctx, nil)
	assert.ErrorIs(t, err, ErrNoSource)

	var none *Engine
	_, err = Ensure(ctx, none)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestMemoryEnginesAreIsolated(t *testing.T) {
	ctx := context.Background()

	a, err := Open("sqlite:///:memory:")
	require.NoError(t, err)
	defer a.Close()
	b, err := Open("sqlite:///:memory:")
	require.NoError(t, err)
	defer b.Close()

	_, err = a.DB().ExecContext(ctx, "CREATE TABLE leak (k INTEGER)")
	require.NoError(t, err)

	countTables := func(e *Engine) int {
		var n int
		require.NoError(t, e.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&n))
		return n
	}
	assert.Equal(t, 1, countTables(a))
	assert.Equal(t, 0, countTables(b))

	// a second connection on a still sees the table
	conn, err := a.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()
	var n int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM leak").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestPrivateMemory(t *testing.T) {
	first, ok := privateMemory(sharedMemory)
	require.True(t, ok)
	second, _ := privateMemory(sharedMemory + "&_fk=1")
	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "mode=memory&cache=shared")
	assert.True(t, strings.HasSuffix(second, "&_fk=1"))

	dsn, ok := privateMemory("data.db")
	assert.False(t, ok)
	assert.Equal(t, "data.db", dsn)

	cfg := DefaultPoolConfig().keepAlive()
	assert.Zero(t, cfg.ConnMaxIdleTime)
	assert.Zero(t, cfg.ConnMaxLifetime)
	assert.GreaterOrEqual(t, cfg.MaxIdleConns, 1)
}

func TestEngineConnectAndVersion(t *testing.T) {
	ctx := context.Background()
	eng, err := Open("sqlite:///" + filepath.Join(t.TempDir(), "version.db"))
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.Ping(ctx))

	conn, err := eng.Connect(ctx)
	require.NoError(t, err)
	var one int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
	require.NoError(t, conn.Close())

	v, err := eng.ServerVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Segments()[0])
}

func TestParseServerVersion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"3.45.1", "3.45.1"},
		{"16.2 (Debian 16.2-1.pgdg120+2)", "16.2.0"},
		{"8.0.36", "8.0.36"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := parseServerVersion(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}

	_, err := parseServerVersion("   ")
	assert.Error(t, err)
}
