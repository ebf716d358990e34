// Package export writes table rows to Avro object container files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/hamba/avro"
	"github.com/hamba/avro/ocf"

	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/internal/debug"
	"github.com/satishbabariya/sqldol/schema"
)

// Namespace of every exported record schema.
const Namespace = "sqldol.export"

// fieldType accepts every scalar a row value is normalised to.
var fieldType = []string{"null", "long", "double", "string", "bytes", "boolean"}

var invalidName = regexp.MustCompile(`[^A-Za-z0-9_]`)

type recordSchema struct {
	Type      string        `json:"type"`
	Name      string        `json:"name"`
	Namespace string        `json:"namespace"`
	Fields    []fieldSchema `json:"fields"`
}

type fieldSchema struct {
	Name string   `json:"name"`
	Type []string `json:"type"`
	Doc  string   `json:"doc,omitempty"`
}

// AvroSchema builds a record schema for table. Field names are sanitised to
// Avro's name rules; the original column name is kept in the field doc.
func AvroSchema(table *schema.Table) (avro.Schema, error) {
	s, err := schemaJSON(table.Name, table.ColumnNames())
	if err != nil {
		return nil, err
	}
	return avro.Parse(s)
}

func schemaJSON(table string, columns []string) (string, error) {
	rec := recordSchema{
		Type:      "record",
		Name:      AvroName(table),
		Namespace: Namespace,
		Fields:    make([]fieldSchema, len(columns)),
	}
	for i, name := range fieldNames(columns) {
		rec.Fields[i] = fieldSchema{Name: name, Type: fieldType}
		if name != columns[i] {
			rec.Fields[i].Doc = columns[i]
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to build schema: %w", err)
	}
	return string(b), nil
}

// AvroName turns an arbitrary identifier into a valid Avro name.
func AvroName(s string) string {
	name := invalidName.ReplaceAllString(s, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "_" + name
	}
	return name
}

// fieldNames sanitises columns, suffixing names that collide after sanitising.
func fieldNames(columns []string) []string {
	seen := make(map[string]int, len(columns))
	names := make([]string, len(columns))
	for i, c := range columns {
		name := AvroName(c)
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}

// WriteAvro streams rows into an OCF container on w and returns the number
// of records written.
func WriteAvro(ctx context.Context, w io.Writer, rows *dol.TableRows) (int, error) {
	columns := rows.Columns()
	s, err := schemaJSON(rows.Table().Name, columns)
	if err != nil {
		return 0, err
	}

	enc, err := ocf.NewEncoder(s, w)
	if err != nil {
		return 0, fmt.Errorf("failed to create encoder: %w", err)
	}

	names := fieldNames(columns)
	n := 0
	for row, err := range rows.All(ctx) {
		if err != nil {
			return n, err
		}

		rec := make(map[string]any, len(names))
		for i, name := range names {
			if i < len(row) {
				rec[name] = normalise(row[i])
			}
		}
		if err := enc.Encode(rec); err != nil {
			return n, fmt.Errorf("failed to encode row %d: %w", n, err)
		}
		n++
	}

	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("failed to flush container: %w", err)
	}

	debug.Debug("exported rows", "table", rows.Table().Name, "records", n)
	return n, nil
}

// normalise maps driver values onto the union branches of fieldType.
func normalise(v any) any {
	switch x := v.(type) {
	case nil, int64, float64, string, []byte, bool:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return uintValue(uint64(x))
	case uint64:
		return uintValue(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

func uintValue(u uint64) any {
	if u > math.MaxInt64 {
		return strconv.FormatUint(u, 10)
	}
	return int64(u)
}
