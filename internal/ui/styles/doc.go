// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the webnote TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values so light and dark terminals
both render legibly:

  - Purple - Primary accent, active tab, popup border
  - Cyan - Commands, headings, list markers
  - Emerald - Saved indicator
  - Amber - Unsaved changes, draw mode
  - Rose - Errors

Status messages carry an ASCII indicator ([OK], [X], [!], [i]) in addition
to color.

# Theme (theme.go)

NewTheme builds every style once. The mode comes from ui.theme in the
config: "dark" and "light" force the background, "auto" asks the terminal
through termenv.

	theme := styles.NewTheme(cfg.UI.Theme)
	fmt.Println(theme.HeadingStyle(1).Render("Title"))
*/
package styles
