package engine

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/go-sql-driver/mysql"
)

// sharedMemory keeps every pooled connection on the same in-memory database.
// Open replaces it with a name private to the Engine, see privateMemory.
const sharedMemory = "file::memory:?cache=shared"

var memorySeq atomic.Uint64

// privateMemory renames the in-memory database in dsn so that each Engine
// gets its own, still shared by that Engine's pooled connections.
func privateMemory(dsn string) (string, bool) {
	rest, ok := strings.CutPrefix(dsn, sharedMemory)
	if !ok {
		return dsn, false
	}
	return fmt.Sprintf("file:sqldol-mem-%d?mode=memory&cache=shared", memorySeq.Add(1)) + rest, true
}

// ParseURL splits a connection URL of the form dialect[+driver]://user:pass@host/db
// into its dialect and the DSN understood by that dialect's driver.
//
// SQLite follows the usual conventions: sqlite:///relative.db, sqlite:////abs/path.db,
// sqlite:///:memory: and bare sqlite:// (in-memory). "file:" DSNs are passed through.
func ParseURL(raw string) (Dialect, string, error) {
	if strings.HasPrefix(raw, "file:") {
		return SQLite, raw, nil
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return "", "", fmt.Errorf("%w: %q has no scheme", ErrInvalidURL, raw)
	}

	scheme = strings.ToLower(scheme)
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}

	switch scheme {
	case "postgres", "postgresql":
		return Postgres, "postgres://" + rest, nil
	case "mysql", "mariadb":
		dsn, err := mysqlDSN(rest)
		if err != nil {
			return "", "", err
		}
		return MySQL, dsn, nil
	case "sqlite", "sqlite3":
		return SQLite, sqliteDSN(rest), nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedDialect, scheme)
	}
}

func sqliteDSN(rest string) string {
	path, query, _ := strings.Cut(rest, "?")
	path = strings.TrimPrefix(path, "/")

	if path == "" || path == ":memory:" {
		if query != "" {
			return sharedMemory + "&" + query
		}
		return sharedMemory
	}
	if query != "" {
		return "file:" + path + "?" + query
	}
	return path
}

// mysqlDSN converts the URL form into go-sql-driver's user:pass@tcp(host:port)/db?params.
func mysqlDSN(rest string) (string, error) {
	u, err := url.Parse("mysql://" + rest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	cfg := mysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:3306"
	} else if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		cfg.Addr = net.JoinHostPort(cfg.Addr, "3306")
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")

	query := u.Query()
	if query.Get("parseTime") == "" {
		cfg.ParseTime = true
	}
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = values[0]
	}

	return cfg.FormatDSN(), nil
}
