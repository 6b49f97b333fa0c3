// Package watch analyses safety report PDFs as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driving"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is analysed.
const DefaultSettle = 500 * time.Millisecond

// ErrClosed is returned when watching a closed Watcher.
var ErrClosed = errors.New("watch: watcher is closed")

// readDir lists directory entries. Tests replace it to simulate failures.
var readDir = os.ReadDir

// Options configures the analyses started by a Watcher.
type Options struct {
	Method   string
	Language string
	NoSave   bool

	// Existing also analyses PDFs already in the directory at start.
	Existing bool

	// Settle delays analysis until writes to a file stop. Zero uses DefaultSettle.
	Settle time.Duration
}

// Outcome is the result of analysing one PDF.
type Outcome struct {
	Path   string
	Result *domain.AnalysisResult
	Err    error
}

// Watcher analyses PDFs created in a directory, one at a time.
type Watcher struct {
	dir      string
	analysis driving.AnalysisService
	opts     Options

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a Watcher for dir.
func New(dir string, analysis driving.AnalysisService, opts Options) *Watcher {
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	return &Watcher{dir: dir, analysis: analysis, opts: opts}
}

// Watch emits the path of every PDF created or rewritten in the directory,
// once writes to it have settled. The channel closes when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir error: %s is not a directory", w.dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.watcher = fw

	out := make(chan string, 16)
	go w.loop(ctx, fw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer fw.Close()

	ticker := time.NewTicker(w.opts.Settle / 2)
	defer ticker.Stop()

	// pending maps a path to the time of its last event.
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if path := w.handleFsEvent(event); path != "" {
				pending[path] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warnw("watch error", "dir", w.dir, "err", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.opts.Settle) {
				delete(pending, path)
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// settled returns the pending paths quiet for at least d, oldest first.
func settled(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= d {
			ready = append(ready, path)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		return pending[ready[i]].Before(pending[ready[j]])
	})
	return ready
}

// handleFsEvent returns the path of a PDF worth analysing, or "".
func (w *Watcher) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if !isPDF(event.Name) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}
	return event.Name
}

func isPDF(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Run watches the directory and analyses each new PDF sequentially, passing
// every outcome to handle. It returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, handle func(Outcome)) error {
	paths, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	if w.opts.Existing {
		existing, err := w.existing()
		if err != nil {
			w.Close()
			return err
		}
		for _, path := range existing {
			if ctx.Err() != nil {
				return nil
			}
			handle(w.process(ctx, path))
		}
	}

	for path := range paths {
		handle(w.process(ctx, path))
	}
	return nil
}

// existing lists the PDFs already in the directory, sorted by name.
func (w *Watcher) existing() ([]string, error) {
	entries, err := readDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", w.dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && isPDF(e.Name()) {
			paths = append(paths, filepath.Join(w.dir, e.Name()))
		}
	}
	return paths, nil
}

func (w *Watcher) process(ctx context.Context, path string) Outcome {
	logger.Section("Watch: " + filepath.Base(path))

	session := domain.NewSession("")
	result, err := w.analysis.Analyze(ctx, session, driving.AnalyzeRequest{
		Path:     path,
		Method:   w.opts.Method,
		Language: w.opts.Language,
		NoSave:   w.opts.NoSave,
	})
	if err != nil {
		logger.Errorw("watch analysis failed", "file", path, "err", err)
	}
	return Outcome{Path: path, Result: result, Err: err}
}

// Close stops the underlying watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
