// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// =============================================================================
// SUGGESTION NAVIGATOR
// =============================================================================

// Navigator tracks which suggestion is highlighted. It is either hidden, with
// no items and index -1, or visible with at least one item and an index in
// [0, len(items)).
type Navigator struct {
	items   []Suggestion
	index   int
	visible bool
}

// NewNavigator returns a hidden navigator.
func NewNavigator() *Navigator {
	return &Navigator{index: -1}
}

// Show replaces the items and highlights the first one. An empty list hides
// the navigator.
func (n *Navigator) Show(items []Suggestion) {
	if len(items) == 0 {
		n.Hide()
		return
	}
	n.items = items
	n.index = 0
	n.visible = true
}

// Hide clears the items.
func (n *Navigator) Hide() {
	n.items = nil
	n.index = -1
	n.visible = false
}

// Next moves the highlight down, stopping at the last item.
func (n *Navigator) Next() {
	if !n.visible {
		return
	}
	if n.index < len(n.items)-1 {
		n.index++
	}
}

// Prev moves the highlight up, stopping at the first item.
func (n *Navigator) Prev() {
	if !n.visible {
		return
	}
	if n.index > 0 {
		n.index--
	}
}

// Hover highlights item i directly. Out-of-range positions are ignored.
func (n *Navigator) Hover(i int) bool {
	if !n.visible || i < 0 || i >= len(n.items) {
		return false
	}
	n.index = i
	return true
}

// Selected returns the highlighted suggestion.
func (n *Navigator) Selected() (Suggestion, bool) {
	if !n.visible {
		return Suggestion{}, false
	}
	return n.items[n.index], true
}

// Visible reports whether suggestions are showing.
func (n *Navigator) Visible() bool { return n.visible }

// Items returns the current suggestions.
func (n *Navigator) Items() []Suggestion { return n.items }

// Index returns the highlighted position, or -1 when hidden.
func (n *Navigator) Index() int { return n.index }

// Len returns the number of suggestions.
func (n *Navigator) Len() int { return len(n.items) }
