package scenario

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileWatcher polls profile files under a directory and triggers a callback
// when one is added, removed or modified.
type FileWatcher struct {
	Root     string
	Interval time.Duration
	onChange func(string) // called with path that changed

	mu        sync.Mutex
	primed    bool
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for YAML files under root.
func NewFileWatcher(root string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Root:      root,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// WatchLoader invalidates l whenever a file under its profiles directory changes.
func WatchLoader(l *Loader, interval time.Duration, onChange func(string)) *FileWatcher {
	return NewFileWatcher(filepath.Join(l.Paths().BaseDir, "profiles"), interval, func(path string) {
		l.Invalidate()
		if onChange != nil {
			onChange(path)
		}
	})
}

// Run polls until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.mu.Lock()
	primed := w.primed
	w.mu.Unlock()
	if !primed {
		w.Scan(true)
	}
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return nil
		}
	}
}

// Scan checks mtimes and invokes onChange for files that changed since the
// last scan. A priming scan only records what it sees.
func (w *FileWatcher) Scan(prime bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]time.Time)
	_ = filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			// missing root or unreadable entries are skipped
			return nil
		}
		fi, err := os.Stat(path)
		if err != nil {
			return nil
		}
		seen[path] = fi.ModTime()
		return nil
	})

	var changed []string
	for p, mt := range seen {
		last, ok := w.lastMTime[p]
		if !ok || !mt.Equal(last) {
			changed = append(changed, p)
		}
	}
	for p := range w.lastMTime {
		if _, ok := seen[p]; !ok {
			changed = append(changed, p)
		}
	}
	w.lastMTime = seen
	w.primed = true

	if prime || w.onChange == nil {
		return
	}
	for _, p := range changed {
		w.onChange(p)
	}
}
