package scenario

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

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "notes: a\n")

	var changed []string
	w := NewFileWatcher(dir, time.Hour, func(p string) { changed = append(changed, p) })
	w.Scan(true)
	assert.Empty(t, changed)

	w.Scan(false)
	assert.Empty(t, changed, "nothing changed since priming")

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(a, later, later))
	b := filepath.Join(dir, "nested", "b.yaml")
	writeFile(t, b, "notes: b\n")
	writeFile(t, filepath.Join(dir, "ignored.txt"), "x")
	w.Scan(false)
	assert.ElementsMatch(t, []string{a, b}, changed)

	changed = nil
	require.NoError(t, os.Remove(b))
	w.Scan(false)
	assert.Equal(t, []string{b}, changed)
}

func TestWatchLoaderInvalidates(t *testing.T) {
	l := fixture(t)
	before, err := l.LoadMerged("retail", "")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, *before.Inputs.Revenue)

	var mu sync.Mutex
	var hits []string
	w := WatchLoader(l, 10*time.Millisecond, func(p string) {
		mu.Lock()
		hits = append(hits, p)
		mu.Unlock()
	})
	w.Scan(true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := l.Paths().ProfilePath("retail")
	writeFile(t, path, "inputs:\n  revenue: 7\n")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(hits) > 0
	}, 2*time.Second, 10*time.Millisecond)

	after, err := l.LoadMerged("retail", "")
	require.NoError(t, err)
	assert.Equal(t, 7.0, *after.Inputs.Revenue)

	cancel()
	require.NoError(t, <-done)
}
