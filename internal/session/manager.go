// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// AUTO-SAVE MANAGER
// =============================================================================

// Manager decides when open notes should be saved. Each note is tracked
// under a key (the tab ID); the manager never saves anything itself, it
// tells the caller which keys are due.
type Manager struct {
	mu sync.Mutex

	cfg Config
	now func() time.Time

	// Per-key tracking
	revs   map[string]uint64 // last observed revision
	seqs   map[string]uint64 // edit sequence, bumps on every observed change
	dirty  map[string]bool
	hashes map[string]uint64 // xxhash of the last saved content

	startTime time.Time
	lastSave  time.Time
	saves     int
}

// Config holds auto-save timing.
type Config struct {
	// Enabled turns auto-save on
	Enabled bool

	// Debounce is the quiet period after the last edit before saving
	// (default: 2 seconds)
	Debounce time.Duration

	// Interval is how often dirty notes are saved regardless of typing
	// (default: 30 seconds)
	Interval time.Duration

	// Indicator is how long the "saved" indicator stays visible
	// (default: 2 seconds)
	Indicator time.Duration
}

// DefaultConfig returns the default auto-save configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Debounce:  2 * time.Second,
		Interval:  30 * time.Second,
		Indicator: 2 * time.Second,
	}
}

// NewManager creates a new auto-save manager.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Indicator <= 0 {
		cfg.Indicator = def.Indicator
	}
	m := &Manager{
		cfg:    cfg,
		now:    time.Now,
		revs:   make(map[string]uint64),
		seqs:   make(map[string]uint64),
		dirty:  make(map[string]bool),
		hashes: make(map[string]uint64),
	}
	m.startTime = m.now()
	return m
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// =============================================================================
// CHANGE TRACKING
// =============================================================================

// Track registers key at revision rev without marking it dirty. Use it for
// notes that were just loaded or saved.
func (m *Manager) Track(key string, rev uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revs[key] = rev
}

// Observe records the current revision of key. When it differs from the
// last one seen the key is marked dirty and a debounce tick is returned;
// otherwise Observe returns nil.
func (m *Manager) Observe(key string, rev uint64) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.revs[key]; ok && last == rev {
		return nil
	}
	m.revs[key] = rev
	m.dirty[key] = true
	m.seqs[key]++

	if !m.cfg.Enabled {
		return nil
	}
	seq := m.seqs[key]
	return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg {
		return DebounceMsg{Key: key, Seq: seq}
	})
}

// Ready reports whether a debounce tick is still current: no edit has
// happened on its key since it was scheduled and the key is dirty.
func (m *Manager) Ready(msg DebounceMsg) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Enabled && m.dirty[msg.Key] && m.seqs[msg.Key] == msg.Seq
}

// NeedsSave reports whether content differs from what was last saved for
// key. Unchanged content marks the key clean.
func (m *Manager) NeedsSave(key string, content []byte) bool {
	h := xxhash.Sum64(content)

	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.hashes[key]; ok && last == h {
		delete(m.dirty, key)
		return false
	}
	return true
}

// MarkSaved records a successful save of content for key and returns a
// command that fires IndicatorExpiredMsg once the indicator should hide.
func (m *Manager) MarkSaved(key string, content []byte) tea.Cmd {
	m.mu.Lock()
	m.hashes[key] = xxhash.Sum64(content)
	delete(m.dirty, key)
	m.lastSave = m.now()
	m.saves++
	d := m.cfg.Indicator
	m.mu.Unlock()

	return tea.Tick(d, func(time.Time) tea.Msg {
		return IndicatorExpiredMsg{}
	})
}

// Rekey moves tracking from one key to another, for a tab whose note
// received its ID on first save.
func (m *Manager) Rekey(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if from == to {
		return
	}
	for _, mp := range []map[string]uint64{m.revs, m.seqs, m.hashes} {
		if v, ok := mp[from]; ok {
			mp[to] = v
			delete(mp, from)
		}
	}
	if m.dirty[from] {
		m.dirty[to] = true
		delete(m.dirty, from)
	}
}

// Forget stops tracking key.
func (m *Manager) Forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.revs, key)
	delete(m.seqs, key)
	delete(m.dirty, key)
	delete(m.hashes, key)
}

// IsDirty returns whether key has unsaved changes.
func (m *Manager) IsDirty(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty[key]
}

// DirtyKeys returns all keys with unsaved changes, sorted.
func (m *Manager) DirtyKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.dirty))
	for k := range m.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// SAVE INDICATOR
// =============================================================================

// IndicatorVisible reports whether a save happened within the indicator
// duration.
func (m *Manager) IndicatorVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.lastSave.IsZero() && m.now().Sub(m.lastSave) < m.cfg.Indicator
}

// LastSave returns when the last save happened (zero if none).
func (m *Manager) LastSave() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSave
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// DebounceMsg fires after the debounce period following an edit.
type DebounceMsg struct {
	Key string
	Seq uint64
}

// TickMsg is sent every Interval to trigger the periodic safety save.
type TickMsg struct {
	Time time.Time
}

// IndicatorExpiredMsg tells the UI to hide the save indicator.
type IndicatorExpiredMsg struct{}

// TickCmd returns a command that fires the next safety tick.
func (m *Manager) TickCmd() tea.Cmd {
	m.mu.Lock()
	d := m.cfg.Interval
	m.mu.Unlock()
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick returns the keys to save on a safety tick and the command for
// the next tick.
func (m *Manager) HandleTick() ([]string, tea.Cmd) {
	m.mu.Lock()
	enabled := m.cfg.Enabled
	m.mu.Unlock()

	var keys []string
	if enabled {
		keys = m.DirtyKeys()
	}
	return keys, m.TickCmd()
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetEnabled enables or disables auto-save.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Enabled = enabled
}

// SetDebounce updates the debounce delay.
func (m *Manager) SetDebounce(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.cfg.Debounce = d
	}
}

// =============================================================================
// STATUS
// =============================================================================

// Status summarises auto-save state for the status bar.
type Status struct {
	Enabled   bool
	Dirty     int
	Saves     int
	LastSave  time.Time
	SinceSave time.Duration
	Uptime    time.Duration
}

// GetStatus returns the current auto-save status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := Status{
		Enabled:  m.cfg.Enabled,
		Dirty:    len(m.dirty),
		Saves:    m.saves,
		LastSave: m.lastSave,
		Uptime:   now.Sub(m.startTime),
	}
	if !m.lastSave.IsZero() {
		s.SinceSave = now.Sub(m.lastSave)
	}
	return s
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToStr(secs) + "s"
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return util.IntToStr(mins) + "m"
		}
		return util.IntToStr(mins) + "m " + util.IntToStr(secs) + "s"
	}
	return util.IntToStr(int(d.Hours())) + "h " + util.IntToStr(int(d.Minutes())%60) + "m"
}
