// Package export publishes robots.txt and sitemap.xml as static files, once
// or every time the database changes.
package export

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/seokit/internal/seoservice"
)

// DefaultDebounce collapses bursts of database writes (main file, WAL and
// shared-memory file) into one build pass.
const DefaultDebounce = 300 * time.Millisecond

// Regenerator runs one build pass.
type Regenerator interface {
	Regenerate(ctx context.Context) (seoservice.RegenerateResult, error)
}

// PassCallback is called after every watcher-driven build pass.
type PassCallback func(res seoservice.RegenerateResult, err error)

// Once runs a single build pass.
func Once(ctx context.Context, r Regenerator, logger *slog.Logger) error {
	res, err := r.Regenerate(ctx)
	if err != nil {
		return err
	}
	logger.Info("export: done", slog.Int("urls", res.URLs), slog.Any("written", res.Written))
	return nil
}

// Watch runs a build pass immediately and again whenever the SQLite file at
// dbPath (or its -wal / -journal companions) changes, until ctx is cancelled.
// Degraded passes are logged and skipped; the previous files stay in place.
func Watch(ctx context.Context, r Regenerator, dbPath string, debounce time.Duration, logger *slog.Logger, cb PassCallback) error {
	if dbPath == "" {
		return errors.New("export: watch requires a local database file")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: SQLite replaces companion files, which would drop
	// a watch on the files themselves.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("export: watching", slog.String("db", abs))

	run := func() {
		res, err := r.Regenerate(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("export: pass failed", slog.String("error", err.Error()))
			}
		} else if len(res.Written) > 0 {
			logger.Info("export: published", slog.Int("urls", res.URLs), slog.Any("written", res.Written))
		}
		if cb != nil {
			cb(res, err)
		}
	}
	run()

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	base := filepath.Base(abs)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("export: stopped")
			return nil

		case <-timerCh:
			run()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("export: db changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("export: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
