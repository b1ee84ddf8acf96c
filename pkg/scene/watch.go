package scene

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Watcher polls a project directory for modifications, driving hot
// reload. It tracks the newest modification time seen across the whole
// directory tree, so edits to shaders and track files trigger a reload
// just like edits to the script itself.
type Watcher struct {
	dir      string
	interval time.Duration
	nextScan time.Time
	latest   time.Time
}

// NewWatcher watches dir, scanning at most once per interval.
func NewWatcher(dir string, interval time.Duration) *Watcher {
	w := &Watcher{dir: dir, interval: interval}
	w.latest = w.scan()
	return w
}

// Changed reports whether anything under the directory was modified since
// the last call that returned true.
func (w *Watcher) Changed() bool {
	now := time.Now()
	if now.Before(w.nextScan) {
		return false
	}
	w.nextScan = now.Add(w.interval)

	latest := w.scan()
	if latest.After(w.latest) {
		w.latest = latest
		return true
	}
	return false
}

func (w *Watcher) scan() time.Time {
	var latest time.Time
	filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if mt := info.ModTime(); mt.After(latest) {
			latest = mt
		}
		return nil
	})
	return latest
}
