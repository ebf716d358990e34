// Package engine resolves connection descriptors into pooled database handles.
//
// An Engine pairs a *sql.DB with the SQL dialect used to build queries for it.
// Views borrow dedicated connections from the pool through Connect and release
// them when each call returns.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/sqldol/internal/debug"
)

// Dialect identifies the SQL flavour spoken by a database.
type Dialect string

const (
	// Postgres dialect.
	Postgres Dialect = "postgresql"
	// MySQL dialect.
	MySQL Dialect = "mysql"
	// SQLite dialect.
	SQLite Dialect = "sqlite"
)

// DriverName maps the dialect to its database/sql driver name.
// lib/pq registers "postgres", go-sqlite3 registers "sqlite3".
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite3"
	default:
		return ""
	}
}

// ParseDialect normalises a provider name ("postgres", "sqlite3", ...) to a Dialect.
func ParseDialect(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDialect, provider)
	}
}

// Conn is a dedicated connection checked out of the pool. It must be closed
// to return it. *sql.Conn satisfies it.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Close() error
}

// Connector hands out dedicated connections for a single dialect.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
	Dialect() Dialect
}

// Engine is a connection pool bound to a dialect.
type Engine struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an existing pool. The caller keeps ownership of db.
func New(db *sql.DB, dialect Dialect) *Engine {
	return &Engine{db: db, dialect: dialect}
}

// Open creates an Engine from a connection URL using DefaultPoolConfig.
func Open(rawURL string) (*Engine, error) {
	return OpenWithConfig(rawURL, DefaultPoolConfig())
}

// OpenWithConfig creates an Engine from a connection URL with explicit pool settings.
// No connection is made until the first query; use Ping to check reachability.
func OpenWithConfig(rawURL string, cfg PoolConfig) (*Engine, error) {
	dialect, dsn, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite && !strings.HasPrefix(rawURL, "file:") {
		var memory bool
		if dsn, memory = privateMemory(dsn); memory {
			cfg = cfg.keepAlive()
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	cfg.apply(db)

	debug.Debug("engine opened", "dialect", dialect, "max_open_conns", cfg.MaxOpenConns)

	return &Engine{db: db, dialect: dialect}, nil
}

// Engine returns e itself, so an *Engine can be used wherever a Source is expected.
func (e *Engine) Engine(context.Context) (*Engine, error) {
	return e, nil
}

// Connect checks a dedicated connection out of the pool.
func (e *Engine) Connect(ctx context.Context) (Conn, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return conn, nil
}

// Dialect returns the SQL dialect.
func (e *Engine) Dialect() Dialect {
	return e.dialect
}

// DB returns the underlying *sql.DB.
func (e *Engine) DB() *sql.DB {
	return e.db
}

// Ping checks that the database is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close closes the pool.
func (e *Engine) Close() error {
	return e.db.Close()
}

var _ Connector = (*Engine)(nil)
