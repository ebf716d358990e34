package executor

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/query/sqlgen"
	"github.com/satishbabariya/sqldol/schema"
)

// countingConnector records how many connections were opened and closed.
type countingConnector struct {
	engine.Connector
	opened, closed atomic.Int32
}

type countingConn struct {
	engine.Conn
	c *countingConnector
}

func (c *countingConnector) Connect(ctx context.Context) (engine.Conn, error) {
	conn, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	c.opened.Add(1)
	return &countingConn{Conn: conn, c: c}, nil
}

func (c *countingConn) Close() error {
	c.c.closed.Add(1)
	return c.Conn.Close()
}

func (c *countingConnector) balanced(t *testing.T) {
	t.Helper()
	assert.Positive(t, c.opened.Load())
	assert.Equal(t, c.opened.Load(), c.closed.Load(), "every connection must be released")
}

func setup(t *testing.T) (*schema.Table, *countingConnector) {
	t.Helper()
	eng, err := engine.Open("sqlite:///" + filepath.Join(t.TempDir(), "exec.db"))
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	_, err = eng.DB().Exec(`
		CREATE TABLE t (k INTEGER, v TEXT, data BLOB);
		INSERT INTO t VALUES (1, 'x', x'00ff'), (2, 'y', NULL), (1, 'z', NULL);
	`)
	require.NoError(t, err)

	table, err := schema.ReflectTable(context.Background(), eng, "t")
	require.NoError(t, err)

	return table, &countingConnector{Connector: eng}
}

func TestCollect(t *testing.T) {
	table, cc := setup(t)

	rows, err := Collect(context.Background(), Select{Table: table, Columns: []string{"k", "v"}, Engine: cc})
	require.NoError(t, err)
	assert.Equal(t, []Row{{int64(1), "x"}, {int64(2), "y"}, {int64(1), "z"}}, rows)
	cc.balanced(t)
}

func TestCollectWithWhere(t *testing.T) {
	table, cc := setup(t)

	rows, err := Collect(context.Background(), Select{Table: table, Columns: []string{"v"}, Where: sqlgen.Where(sqlgen.Eq("k", 3)), Engine: cc})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	cc.balanced(t)
}

func TestBinaryColumnsKeepBytes(t *testing.T) {
	table, _ := setup(t)

	rows, err := Collect(context.Background(), Select{Table: table, Columns: []string{"data"}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, rows[0][0])
	assert.Nil(t, rows[1][0])
}

func TestIterateEarlyBreakReleases(t *testing.T) {
	table, cc := setup(t)

	seen := 0
	for row, err := range Iterate(context.Background(), Select{Table: table, Engine: cc}) {
		require.NoError(t, err)
		assert.Len(t, row, 3)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
	cc.balanced(t)
}

func TestIterateIsRestartable(t *testing.T) {
	table, cc := setup(t)
	seq := Iterate(context.Background(), Select{Table: table, Engine: cc})

	for range 2 {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		assert.Equal(t, 3, n)
	}
	assert.Equal(t, int32(2), cc.opened.Load())
	cc.balanced(t)
}

func TestQueryErrorReleases(t *testing.T) {
	table, cc := setup(t)

	var got error
	for _, err := range Iterate(context.Background(), Select{Table: table, Columns: []string{"nope"}, Engine: cc}) {
		got = err
	}
	assert.Error(t, got)
	cc.balanced(t)
}

func TestCallbackPanicReleases(t *testing.T) {
	table, cc := setup(t)

	assert.Panics(t, func() {
		_ = WithRows(context.Background(), Select{Table: table, Engine: cc}, func(*Rows) error {
			panic("boom")
		})
	})
	cc.balanced(t)
}

func TestCountMatchesIterate(t *testing.T) {
	table, cc := setup(t)
	ctx := context.Background()

	for _, where := range []*sqlgen.WhereClause{nil, sqlgen.Where(sqlgen.Eq("k", 1)), sqlgen.Where(sqlgen.Eq("k", 9))} {
		sel := Select{Table: table, Where: where, Engine: cc}

		n, err := Count(ctx, sel)
		require.NoError(t, err)

		rows, err := Collect(ctx, sel)
		require.NoError(t, err)
		assert.Len(t, rows, n)
	}
	cc.balanced(t)
}

func TestRowsColumns(t *testing.T) {
	table, _ := setup(t)

	err := WithRows(context.Background(), Select{Table: table, Columns: []string{"v", "k"}}, func(r *Rows) error {
		assert.Equal(t, []string{"v", "k"}, r.Columns())
		return nil
	})
	require.NoError(t, err)
}

func TestNoEngine(t *testing.T) {
	_, err := Collect(context.Background(), Select{Table: &schema.Table{Name: "t"}})
	assert.ErrorIs(t, err, ErrNoEngine)

	_, err = Count(context.Background(), Select{})
	assert.ErrorIs(t, err, ErrNoTable)
}
