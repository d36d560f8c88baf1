// Package watch re-applies a rule list whenever its target file is
// rewritten by another tool, such as a code generator.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/anchorpatch/internal/domain"
	"github.com/bft-labs/anchorpatch/internal/ports"
)

// DefaultDebounce is the delay between the last change event and the re-apply.
const DefaultDebounce = 200 * time.Millisecond

// Applier is the subset of patch.Applier the watcher needs.
type Applier interface {
	Apply(ctx context.Context, path string, rules []domain.Rule) (domain.Result, error)
}

// Watcher monitors one target file.
type Watcher struct {
	mu sync.Mutex

	applier  Applier
	logger   ports.Logger
	path     string
	rules    []domain.Rule
	debounce time.Duration
	timer    *time.Timer
	inflight sync.WaitGroup

	// last is the text this watcher wrote; written reports whether it is set.
	last    string
	written bool

	// OnResult, if set, is called after every apply attempt.
	OnResult func(domain.Result, error)
}

// New creates a Watcher for path.
func New(applier Applier, logger ports.Logger, path string, rules []domain.Rule, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		applier:  applier,
		logger:   logger,
		path:     filepath.Clean(path),
		rules:    rules,
		debounce: debounce,
	}
}

// Run applies the rules once, then again after every change to the target,
// until ctx is canceled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	defer w.drain()

	// Watch the directory: generators often replace the file by rename.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.apply(ctx)

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil && w.timer.Stop() {
		w.inflight.Done()
	}
	w.inflight.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.inflight.Done()
		w.apply(ctx)
	})
}

// drain cancels a pending debounce and waits for a running apply to finish.
func (w *Watcher) drain() {
	w.mu.Lock()
	if w.timer != nil && w.timer.Stop() {
		w.inflight.Done()
	}
	w.timer = nil
	w.mu.Unlock()

	w.inflight.Wait()
}

// apply runs one patch attempt. Runs are serialized.
func (w *Watcher) apply(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Our own rename fires an event too. Rules that keep their anchor would
	// match again, so only re-apply when the content changed.
	if w.written {
		if data, err := os.ReadFile(w.path); err == nil && string(data) == w.last {
			w.logger.Debug("target unchanged since last write", ports.String("path", w.path))
			return
		}
	}

	res, err := w.applier.Apply(ctx, w.path, w.rules)
	switch {
	case err == nil:
		if res.Written {
			w.last, w.written = res.Patched, true
		}
		w.logger.Info("target patched", ports.String("path", w.path))
	case errors.Is(err, domain.ErrAnchorNotFound):
		w.logger.Debug("already patched", ports.String("path", w.path), ports.Err(err))
	default:
		w.logger.Error("patch failed", ports.String("path", w.path), ports.Err(err))
	}
	if w.OnResult != nil {
		w.OnResult(res, err)
	}
}
