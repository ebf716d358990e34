package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/hamba/avro"
	"github.com/hamba/avro/ocf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqldol/dol"
	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/schema"
)

func TestAvroSchema(t *testing.T) {
	table := &schema.Table{
		Name: "order items",
		Columns: []*schema.Column{
			{Name: "id"}, {Name: "unit-price"}, {Name: "unit price"}, {Name: "2nd"},
		},
	}

	s, err := AvroSchema(table)
	require.NoError(t, err)

	rec, ok := s.(*avro.RecordSchema)
	require.True(t, ok)
	assert.Equal(t, "order_items", rec.Name())
	assert.Equal(t, Namespace, rec.Namespace())

	var names []string
	for _, f := range rec.Fields() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"id", "unit_price", "unit_price_1", "_2nd"}, names)
}

func TestNormalise(t *testing.T) {
	assert.Equal(t, int64(3), normalise(3))
	assert.Equal(t, int64(3), normalise(uint32(3)))
	assert.Equal(t, "18446744073709551615", normalise(uint64(1<<64-1)))
	assert.Equal(t, float64(1.5), normalise(float32(1.5)))
	assert.Nil(t, normalise(nil))
}

func TestWriteAvro(t *testing.T) {
	ctx := context.Background()
	eng, err := engine.Open("sqlite:///" + filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.DB().Exec(`
		CREATE TABLE items (id INTEGER, name TEXT, price REAL);
		INSERT INTO items VALUES (1, 'pen', 1.5), (2, NULL, 3.25);
	`)
	require.NoError(t, err)

	tv, err := dol.NewTablesView(ctx, eng)
	require.NoError(t, err)
	rows, err := tv.Rows("items")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := WriteAvro(ctx, &buf, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Obj\x01")))

	dec, err := ocf.NewDecoder(&buf)
	require.NoError(t, err)

	records := 0
	for dec.HasNext() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		assert.Contains(t, rec, "price")
		records++
	}
	require.NoError(t, dec.Error())
	assert.Equal(t, n, records)
}
