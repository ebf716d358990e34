package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// ServerVersion asks the database for its version.
func (e *Engine) ServerVersion(ctx context.Context) (*version.Version, error) {
	var query string
	switch e.dialect {
	case SQLite:
		query = "SELECT sqlite_version()"
	case Postgres:
		query = "SHOW server_version"
	case MySQL:
		query = "SELECT VERSION()"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, e.dialect)
	}

	var raw string
	if err := e.db.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to query server version: %w", err)
	}

	return parseServerVersion(raw)
}

// parseServerVersion keeps the leading version token, e.g. "16.2 (Debian 16.2-1)" -> 16.2.
func parseServerVersion(raw string) (*version.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty server version")
	}

	v, err := version.NewVersion(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid server version %q: %w", raw, err)
	}
	return v, nil
}
