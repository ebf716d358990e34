package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.db")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	defer w.Stop()

	require.NoError(t, w.Start())
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, os.WriteFile(file+"-wal", []byte("b"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.db")

	var calls atomic.Int32
	w, err := NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.Debounce = 10 * time.Millisecond
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
