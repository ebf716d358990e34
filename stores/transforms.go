package stores

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/sqldol/dol"
)

var (
	// ErrExhausted is returned when a single row was expected and none matched.
	ErrExhausted = errors.New("no rows")
	// ErrTooMany is returned when exactly one row was expected and more matched.
	ErrTooMany = errors.New("more than one row")
)

// Record is a row keyed by field name.
type Record = map[string]any

// ListValues returns rows as an independent ordered slice.
func ListValues(rows []dol.Row) ([]dol.Row, error) {
	out := make([]dol.Row, len(rows))
	copy(out, rows)
	return out, nil
}

// FirstValue returns the first row.
func FirstValue(rows []dol.Row) (dol.Row, error) {
	if len(rows) == 0 {
		return nil, ErrExhausted
	}
	return rows[0], nil
}

// ExactlyOne returns the only row, failing on zero or several.
func ExactlyOne(rows []dol.Row) (dol.Row, error) {
	switch len(rows) {
	case 0:
		return nil, ErrExhausted
	case 1:
		return rows[0], nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrTooMany, len(rows))
	}
}

// ToRecord zips fields with row values. Extra fields or values are dropped.
func ToRecord(fields []string, row dol.Row) Record {
	n := min(len(fields), len(row))
	rec := make(Record, n)
	for i := range n {
		rec[fields[i]] = row[i]
	}
	return rec
}

// Dicts converts every row to a Record.
func Dicts(fields []string) func([]dol.Row) ([]Record, error) {
	return func(rows []dol.Row) ([]Record, error) {
		out := make([]Record, len(rows))
		for i, row := range rows {
			out[i] = ToRecord(fields, row)
		}
		return out, nil
	}
}

// FirstDict converts the first row to a Record.
func FirstDict(fields []string) func([]dol.Row) (Record, error) {
	return func(rows []dol.Row) (Record, error) {
		row, err := FirstValue(rows)
		if err != nil {
			return nil, err
		}
		return ToRecord(fields, row), nil
	}
}
