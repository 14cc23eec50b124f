// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/webnote/internal/ui/styles"
	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// TAB BAR COMPONENT
// =============================================================================

// TabLabel describes one tab for rendering.
type TabLabel struct {
	ID     string
	Title  string
	Active bool
	Dirty  bool
}

// Hit map IDs registered by the tab bar.
const (
	RegionTab    = "tab"
	RegionNewTab = "tab-new"
)

// TabBar renders the row of open tabs followed by a "+" button.
type TabBar struct {
	theme    *styles.Theme
	maxTitle int
}

// NewTabBar creates a tab bar.
func NewTabBar(theme *styles.Theme) *TabBar {
	return &TabBar{theme: theme, maxTitle: 20}
}

// View renders the tabs on row y and registers a region per tab (Data is the
// tab ID) and one for the new-tab button. Tabs that do not fit are dropped
// from the left of the active tab first.
func (b *TabBar) View(tabs []TabLabel, width, y int, hits *HitMap) string {
	rendered := make([]string, len(tabs))
	widths := make([]int, len(tabs))
	active := 0
	for i, t := range tabs {
		title := util.TruncateWidth(t.Title, b.maxTitle)
		if t.Dirty {
			title += b.theme.TabDirty.Render(" *")
		}
		style := b.theme.TabInactive
		if t.Active {
			style = b.theme.TabActive
			active = i
		}
		rendered[i] = style.Render(title)
		widths[i] = ansi.StringWidth(rendered[i])
	}
	plus := b.theme.TabNew.Render("+")
	plusWidth := ansi.StringWidth(plus)

	first := 0
	for first < active && sum(widths[first:])+plusWidth > width {
		first++
	}

	var sb strings.Builder
	x := 0
	for i := first; i < len(tabs); i++ {
		if x+widths[i]+plusWidth > width && i != active {
			break
		}
		sb.WriteString(rendered[i])
		if hits != nil {
			hits.Add(RegionTab, Rect{X: x, Y: y, W: widths[i], H: 1}, tabs[i].ID)
		}
		x += widths[i]
	}
	sb.WriteString(plus)
	if hits != nil {
		hits.Add(RegionNewTab, Rect{X: x, Y: y, W: plusWidth, H: 1}, nil)
	}

	return b.theme.TabBar.Width(width).MaxWidth(width).Render(sb.String())
}

func sum(v []int) int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}
