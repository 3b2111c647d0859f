package watch

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/reconcile/internal/errors"
)

// Op is the kind of change seen for a path.
type Op int

const (
	// OpWrite means the file was created or written.
	OpWrite Op = iota
	// OpRemove means the file was removed or renamed away.
	OpRemove
)

func (op Op) String() string {
	if op == OpRemove {
		return "remove"
	}
	return "write"
}

// Change is one debounced file change.
type Change struct {
	Path string
	Op   Op
}

// Config configures the watcher.
type Config struct {
	// Paths are files or directories to watch. A directory reports
	// changes to the tree files directly inside it.
	Paths []string

	// Ignore lists base names, path segments or globs to skip.
	Ignore []string

	// Debounce is the quiet period before pending changes are reported.
	Debounce time.Duration

	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"*.tmp",
	"*.swp",
	"*~",
	".#*",
}

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 50 * time.Millisecond

// treeExtensions are the file types picked up from watched directories.
var treeExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Watcher monitors tree files for changes.
type Watcher struct {
	config   Config
	onChange func(Change)
	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	ready    chan struct{}
	once     sync.Once

	// files are explicitly watched files; dirs are watched directories.
	files map[string]bool
	dirs  map[string]bool
}

// New creates a new watcher.
func New(config Config) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Watcher{
		config: config,
		ready:  make(chan struct{}),
		files:  make(map[string]bool),
		dirs:   make(map[string]bool),
	}
}

// OnChange sets the callback for file changes. The callback runs on the
// watcher goroutine; changes are delivered one at a time.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Ready is closed once every path is being watched. It stays open when
// Start fails.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Start watches until ctx is done or Stop is called. It returns an E040
// error when a path cannot be watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New("E040").Wrap(err)
	}
	defer fw.Close()

	if err := w.add(fw); err != nil {
		return err
	}
	w.once.Do(func() { close(w.ready) })

	pending := make(map[string]Op)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-stopCh:
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			op, ok := w.classify(event)
			if !ok {
				continue
			}
			pending[filepath.Clean(event.Name)] = op
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.flush(pending)
			pending = make(map[string]Op)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("watch error", "error", errors.New("E041").Wrap(err))
		}
	}
}

// add registers every configured path with fw.
func (w *Watcher) add(fw *fsnotify.Watcher) error {
	for _, p := range w.config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.New("E040").WithLocation(p, 0, 0).Wrap(err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return errors.New("E040").
				WithLocation(p, 0, 0).
				WithSuggestion("Create the file before watching it").
				Wrap(err)
		}

		dir := abs
		if info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := fw.Add(dir); err != nil {
			return errors.New("E040").WithLocation(p, 0, 0).Wrap(err)
		}
	}
	return nil
}

// classify maps an fsnotify event to a Change op, reporting false for
// events nobody asked about.
func (w *Watcher) classify(event fsnotify.Event) (Op, bool) {
	p := filepath.Clean(event.Name)
	if !w.files[p] {
		if !w.dirs[filepath.Dir(p)] || !treeExtensions[strings.ToLower(filepath.Ext(p))] {
			return 0, false
		}
	}
	if w.shouldIgnore(p) {
		return 0, false
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		return OpWrite, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return OpRemove, true
	default:
		return 0, false
	}
}

func (w *Watcher) flush(pending map[string]Op) {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()
	if callback == nil {
		return
	}

	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		callback(Change{Path: p, Op: pending[p]})
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}

		hasPathSep := strings.ContainsAny(pattern, `/\`)
		if strings.ContainsAny(pattern, "*?[") {
			var matched bool
			if hasPathSep {
				matched, _ = path.Match(filepath.ToSlash(pattern), normalized)
			} else {
				matched, _ = filepath.Match(pattern, name)
			}
			if matched {
				return true
			}
			continue
		}

		if hasSegments(normalized, filepath.ToSlash(pattern)) {
			return true
		}
	}
	return false
}

// hasSegments reports whether the slash-separated segments of pattern
// appear consecutively in p.
func hasSegments(p, pattern string) bool {
	parts := segments(p)
	want := segments(pattern)
	if len(want) == 0 || len(want) > len(parts) {
		return false
	}
outer:
	for i := 0; i <= len(parts)-len(want); i++ {
		for j := range want {
			if parts[i+j] != want[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

func segments(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}
