// Package watch reruns generation when schema files change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long the watcher waits for a burst of events to settle
const DefaultDelay = 100 * time.Millisecond

// SchemaPatterns match every file the schema loader accepts
var SchemaPatterns = []string{"*.json", "*.yaml", "*.yml"}

// Watcher watches directories recursively and reports changed files matching
// its patterns. Events arriving within the delay of each other are reported
// together in one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	delay    time.Duration
	onChange func(ctx context.Context, paths []string)
	logger   zerolog.Logger
}

// New creates a watcher. Patterns and excludes are matched against base names.
func New(patterns, exclude []string, delay time.Duration, onChange func(ctx context.Context, paths []string), logger zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Watcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  exclude,
		delay:    delay,
		onChange: onChange,
		logger:   logger.With().Str("component", "watch").Logger(),
	}, nil
}

// AddDirectory recursively adds a directory to the watcher
func (w *Watcher) AddDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip excluded paths
		if path != dir && w.excluded(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Only watch directories
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
			w.logger.Debug().Str("dir", path).Msg("watching")
		}

		return nil
	})
}

// Start blocks, delivering batches of changed paths to the callback until ctx
// is done. The callback runs on the watcher goroutine, so batches never overlap.
func (w *Watcher) Start(ctx context.Context) error {
	pending := make(map[string]struct{})
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

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			// If a new directory is created, add it to the watcher
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.AddDirectory(event.Name); err != nil {
						w.logger.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}

			if event.Op == fsnotify.Chmod || !w.shouldWatch(event.Name) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file changed")

			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			clear(pending)

			w.onChange(ctx, paths)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				w.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldWatch checks if a file should trigger a change event based on patterns
func (w *Watcher) shouldWatch(path string) bool {
	if w.excluded(path) {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range w.patterns {
		if matched, _ := filepath.Match(strings.TrimPrefix(pattern, "**/"), base); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
