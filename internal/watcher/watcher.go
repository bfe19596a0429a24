package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
)

const minPoll = 10 * time.Millisecond

type implWatcher struct {
	inputDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	settle   time.Duration

	// pending maps a path to the time of its last write event.
	pending map[string]time.Time
}

// Start monitors the input directory and processes new audio files
// sequentially. It returns when ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s", w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(transcriber.AudioExtensions, ", "))

	ticker := time.NewTicker(pollInterval(w.settle))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.track(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)

		case now := <-ticker.C:
			for _, path := range w.ready(now) {
				if ctx.Err() != nil {
					break
				}
				if err := w.handler(ctx, path); err != nil {
					w.logger.Error(ctx, "Failed to process %s: %v", path, err)
				}
			}
		}
	}
}

// pollInterval checks pending files four times per settle window, but never
// more often than minPoll.
func pollInterval(settle time.Duration) time.Duration {
	return max(settle/4, minPoll)
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) track(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
		return
	case !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write):
		return
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !transcriber.IsAudioFile(name) {
		w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
		return
	}

	if _, seen := w.pending[event.Name]; !seen {
		w.logger.Info(ctx, "New audio detected: %s", event.Name)
	}
	w.pending[event.Name] = time.Now()
}

// ready pops the pending files that have been quiet for settle, in name order.
func (w *implWatcher) ready(now time.Time) []string {
	var out []string
	for path, last := range w.pending {
		if now.Sub(last) < w.settle {
			continue
		}
		delete(w.pending, path)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
