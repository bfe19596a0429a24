package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
)

// DefaultSettle is how long a new file must stay unchanged before it is handled.
const DefaultSettle = 2 * time.Second

// New creates a new Watcher on inputDir. Files are handed to handler one at a
// time once they have not been written to for settle.
func New(inputDir string, handler EventHandler, log logger.Logger, settle time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle <= 0 {
		settle = DefaultSettle
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
		settle:   settle,
		pending:  make(map[string]time.Time),
	}, nil
}
