package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// watch observes the log file and fans change notifications out to SSE
// subscribers. The parent directory is watched rather than the file itself
// so the watch survives editors and sync tools that replace the file.
//
// Notifications are debounced with a rate limiter: a burst of appends
// collapses into one recompute signal per debounce interval. The change
// signal carries no payload: clients re-fetch, and the fetch recomputes the
// snapshot from the full log, so there is no torn intermediate state to leak.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.logPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go s.notifyLoop(ctx)

	target := filepath.Clean(s.logPath)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case s.changed <- struct{}{}:
			default:
				// A notification is already pending.
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching event log: %w", err)
		}
	}
}

// notifyLoop throttles raw change signals into broadcasts.
func (s *Server) notifyLoop(ctx context.Context) {
	limiter := rate.NewLimiter(rate.Every(s.settings.WatchDebounce), 1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.changed:
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			s.broadcast()
		}
	}
}
