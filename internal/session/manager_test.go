// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"testing"
	"time"
)

// fastConfig keeps tea.Tick commands short enough to run inline.
func fastConfig() Config {
	return Config{
		Enabled:   true,
		Debounce:  time.Millisecond,
		Interval:  time.Millisecond,
		Indicator: time.Minute,
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Default Enabled should be true")
	}
	if cfg.Debounce != 2*time.Second {
		t.Errorf("Default Debounce = %v, want 2s", cfg.Debounce)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Default Interval = %v, want 30s", cfg.Interval)
	}
	if cfg.Indicator != 2*time.Second {
		t.Errorf("Default Indicator = %v, want 2s", cfg.Indicator)
	}
}

func TestNewManager_FillsZeroDurations(t *testing.T) {
	m := NewManager(Config{Enabled: true})
	cfg := m.Config()

	if cfg.Debounce != 2*time.Second || cfg.Interval != 30*time.Second || cfg.Indicator != 2*time.Second {
		t.Errorf("zero durations not defaulted: %+v", cfg)
	}
}

// =============================================================================
// CHANGE TRACKING TESTS
// =============================================================================

func TestObserve_SameRevisionIsNoop(t *testing.T) {
	m := NewManager(fastConfig())
	m.Track("tab", 3)

	if cmd := m.Observe("tab", 3); cmd != nil {
		t.Error("unchanged revision should not schedule a save")
	}
	if m.IsDirty("tab") {
		t.Error("unchanged revision should not mark dirty")
	}
}

func TestObserve_SchedulesDebounce(t *testing.T) {
	m := NewManager(fastConfig())
	m.Track("tab", 1)

	cmd := m.Observe("tab", 2)
	if cmd == nil {
		t.Fatal("changed revision should schedule a debounce tick")
	}
	if !m.IsDirty("tab") {
		t.Error("changed revision should mark dirty")
	}

	msg, ok := cmd().(DebounceMsg)
	if !ok {
		t.Fatalf("expected DebounceMsg")
	}
	if msg.Key != "tab" {
		t.Errorf("Key = %q, want tab", msg.Key)
	}
	if !m.Ready(msg) {
		t.Error("latest debounce tick should be ready")
	}
}

func TestReady_StaleTickIgnored(t *testing.T) {
	m := NewManager(fastConfig())

	first := m.Observe("tab", 1)
	m.Observe("tab", 2)

	msg := first().(DebounceMsg)
	if m.Ready(msg) {
		t.Error("tick from an earlier edit should be stale")
	}
}

func TestObserve_DisabledStillTracksDirty(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	m := NewManager(cfg)

	if cmd := m.Observe("tab", 1); cmd != nil {
		t.Error("disabled auto-save should not schedule ticks")
	}
	if !m.IsDirty("tab") {
		t.Error("edits should still mark dirty when disabled")
	}
}

func TestNeedsSave_SkipsUnchangedContent(t *testing.T) {
	m := NewManager(fastConfig())
	data := []byte(`{"blocks":[]}`)

	if !m.NeedsSave("tab", data) {
		t.Error("first save should be needed")
	}
	m.MarkSaved("tab", data)

	m.Observe("tab", 5)
	if m.NeedsSave("tab", data) {
		t.Error("identical content should not need saving")
	}
	if m.IsDirty("tab") {
		t.Error("identical content should mark the key clean")
	}
	if !m.NeedsSave("tab", []byte(`{"blocks":[1]}`)) {
		t.Error("changed content should need saving")
	}
}

func TestMarkSaved_ClearsDirtyAndShowsIndicator(t *testing.T) {
	m := NewManager(fastConfig())
	m.Observe("tab", 1)

	if m.IndicatorVisible() {
		t.Error("indicator should be hidden before any save")
	}

	cmd := m.MarkSaved("tab", []byte("x"))
	if cmd == nil {
		t.Fatal("MarkSaved should return an indicator command")
	}
	if m.IsDirty("tab") {
		t.Error("saved key should be clean")
	}
	if !m.IndicatorVisible() {
		t.Error("indicator should show right after a save")
	}
	if m.LastSave().IsZero() {
		t.Error("LastSave should be set")
	}
}

func TestIndicator_Expires(t *testing.T) {
	m := NewManager(fastConfig())
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.MarkSaved("tab", []byte("x"))
	now = now.Add(59 * time.Second)
	if !m.IndicatorVisible() {
		t.Error("indicator should still be visible")
	}
	now = now.Add(2 * time.Second)
	if m.IndicatorVisible() {
		t.Error("indicator should have expired")
	}
}

func TestRekey(t *testing.T) {
	m := NewManager(fastConfig())
	m.Observe("new", 1)
	m.MarkSaved("new", []byte("a"))
	m.Observe("new", 2)

	m.Rekey("new", "note-1")

	if m.IsDirty("new") {
		t.Error("old key should be gone")
	}
	if !m.IsDirty("note-1") {
		t.Error("dirty flag should move to the new key")
	}
	if m.NeedsSave("note-1", []byte("a")) {
		t.Error("saved hash should move to the new key")
	}
}

func TestForget(t *testing.T) {
	m := NewManager(fastConfig())
	m.Observe("tab", 1)
	m.Forget("tab")

	if m.IsDirty("tab") {
		t.Error("forgotten key should not be dirty")
	}
	if len(m.DirtyKeys()) != 0 {
		t.Error("no keys should be dirty")
	}
}

func TestHandleTick_ReturnsDirtyKeys(t *testing.T) {
	m := NewManager(fastConfig())
	m.Observe("b", 1)
	m.Observe("a", 1)
	m.Observe("c", 1)
	m.MarkSaved("c", nil)

	keys, next := m.HandleTick()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("HandleTick keys = %v, want [a b]", keys)
	}
	if next == nil {
		t.Fatal("HandleTick should schedule the next tick")
	}
	if _, ok := next().(TickMsg); !ok {
		t.Error("next tick should produce TickMsg")
	}

	m.SetEnabled(false)
	if keys, _ := m.HandleTick(); len(keys) != 0 {
		t.Errorf("disabled manager returned keys %v", keys)
	}
}

func TestGetStatus(t *testing.T) {
	m := NewManager(fastConfig())
	m.Observe("a", 1)
	m.Observe("b", 1)
	m.MarkSaved("a", []byte("x"))

	s := m.GetStatus()
	if s.Dirty != 1 {
		t.Errorf("Dirty = %d, want 1", s.Dirty)
	}
	if s.Saves != 1 {
		t.Errorf("Saves = %d, want 1", s.Saves)
	}
	if !s.Enabled {
		t.Error("Enabled should be true")
	}
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(fastConfig())
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			for rev := uint64(1); rev <= 50; rev++ {
				m.Observe(key, rev)
				m.IsDirty(key)
				m.DirtyKeys()
				m.MarkSaved(key, []byte{byte(rev)})
				m.IndicatorVisible()
			}
		}(i)
	}

	wg.Wait()
	if len(m.DirtyKeys()) != 0 {
		t.Errorf("all keys should be clean, got %v", m.DirtyKeys())
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}

	for _, tc := range testCases {
		if got := FormatDuration(tc.d); got != tc.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.expected)
		}
	}
}
