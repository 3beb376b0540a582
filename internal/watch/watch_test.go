package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pond.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assembly:\n"), 0o644))

	var mu sync.Mutex
	var fired []string
	w, err := New(path, nil, func(p string) {
		mu.Lock()
		fired = append(fired, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("assembly:\n  name: pond\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) > 0
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, fired[0])
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pond.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assembly:\n"), 0o644))

	var mu sync.Mutex
	count := 0
	w, err := New(path, nil, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count, "writes to other files in the directory must not fire")
}

func TestWatcherRejectsUnresolvablePath(t *testing.T) {
	w, err := New("pond.yaml", nil, nil)
	require.NoError(t, err, "relative paths are resolved, not rejected")
	require.NoError(t, w.Close())
}
