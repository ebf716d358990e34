package engine

import (
	"database/sql"
	"time"
)

// PoolConfig holds connection pool settings applied when an Engine opens its pool.
type PoolConfig struct {
	// MaxOpenConns is the maximum number of open connections (0 = unlimited).
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection.
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns sensible default pool configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// keepAlive holds one connection open for good. An in-memory SQLite database
// is dropped when its last connection closes.
func (c PoolConfig) keepAlive() PoolConfig {
	if c.MaxIdleConns < 1 {
		c.MaxIdleConns = 1
	}
	c.ConnMaxLifetime = 0
	c.ConnMaxIdleTime = 0
	return c
}

func (c PoolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}
