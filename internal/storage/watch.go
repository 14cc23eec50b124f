// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// =============================================================================
// STORE WATCHER
// =============================================================================

// Change reports a note modified outside this process.
type Change struct {
	// NoteID is empty when only the database as a whole is known to have
	// changed.
	NoteID  string
	Removed bool
}

// Watcher reports changes to a store directory, such as another webnote
// instance saving notes for the same device.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	limiter  *rate.Limiter
	changes  chan Change
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]pendingChange
}

type pendingChange struct {
	change Change
	at     time.Time
}

// NewWatcher watches dir. Events for the same note within debounce are
// merged into one Change.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		fs:       fw,
		dir:      dir,
		debounce: debounce,
		limiter:  rate.NewLimiter(rate.Every(debounce/4), 8),
		changes:  make(chan Change, 16),
		logger:   log.New(io.Discard),
		pending:  make(map[string]pendingChange),
	}, nil
}

// SetLogger sets the logger for watch errors.
func (w *Watcher) SetLogger(l *log.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Changes returns the channel changes are delivered on. Changes are dropped
// when the receiver falls behind.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "dir", w.dir, "err", err)

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	change, ok := classify(event)
	if !ok {
		return
	}
	w.mu.Lock()
	w.pending[change.NoteID] = pendingChange{change: change, at: time.Now()}
	w.mu.Unlock()
}

// classify maps a file event to a Change. Temp files from atomic writes are
// ignored; their rename shows up as a Create of the real file.
func classify(event fsnotify.Event) (Change, bool) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".tmp-") {
		return Change{}, false
	}

	removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	changed := event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
	if !removed && !changed {
		return Change{}, false
	}

	switch {
	case strings.HasSuffix(name, ".json"):
		return Change{NoteID: strings.TrimSuffix(name, ".json"), Removed: removed && !changed}, true
	case strings.HasPrefix(name, DatabaseFile):
		return Change{}, true
	}
	return Change{}, false
}

func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for key, p := range w.pending {
		if now.Sub(p.at) < w.debounce {
			continue
		}
		if !w.limiter.Allow() {
			return
		}
		delete(w.pending, key)
		select {
		case w.changes <- p.change:
		default:
			w.logger.Debug("dropped store change", "note", p.change.NoteID)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
