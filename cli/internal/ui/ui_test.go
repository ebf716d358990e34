package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "0x00ff", FormatValue([]byte{0, 0xff}))
	assert.Contains(t, FormatValue(nil), Null)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, []string{"k", "v"}, [][]string{{"1", "x"}, {"2", "y"}}))
	assert.Contains(t, buf.String(), "x")
	assert.Contains(t, buf.String(), "y")
}

func TestPrintKeyValues(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	PrintKeyValues(&buf, [][2]string{{"dialect", "sqlite"}, {"tables", "2"}})
	assert.Equal(t, "dialect: sqlite\ntables:  2\n", buf.String())
}
