package engine

import "errors"

var (
	// ErrUnsupportedDialect is returned for URLs whose scheme has no registered driver.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")

	// ErrInvalidURL is returned when a connection string cannot be parsed.
	ErrInvalidURL = errors.New("invalid database url")

	// ErrNoSource is returned by Ensure when given a nil source.
	ErrNoSource = errors.New("no connection source given")
)
