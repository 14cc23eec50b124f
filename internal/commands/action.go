// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
)

// =============================================================================
// ACTION VARIANT
// =============================================================================

// ActionKind identifies the formatting operation a command performs.
type ActionKind int

const (
	ActionNone      ActionKind = iota // No action (command owns sub-commands)
	ActionBold                        // Toggle bold
	ActionItalic                      // Toggle italic
	ActionUnderline                   // Toggle underline
	ActionColor                       // Set foreground color
	ActionFont                        // Set font family
	ActionSize                        // Set font size
	ActionHeading                     // Insert heading block (Level 1-5)
	ActionBullet                      // Insert bullet item
	ActionNumbered                    // Insert numbered item
	ActionQuote                       // Insert quote block
	ActionCode                        // Insert code block
	ActionCheckbox                    // Start checkbox list
	ActionEnd                         // End current formatting
)

var actionNames = map[ActionKind]string{
	ActionNone:      "none",
	ActionBold:      "bold",
	ActionItalic:    "italic",
	ActionUnderline: "underline",
	ActionColor:     "color",
	ActionFont:      "font",
	ActionSize:      "size",
	ActionHeading:   "heading",
	ActionBullet:    "bullet",
	ActionNumbered:  "numbered",
	ActionQuote:     "quote",
	ActionCode:      "code",
	ActionCheckbox:  "checkbox",
	ActionEnd:       "end",
}

// String returns the lowercase name of the kind.
func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "ActionKind(" + strconv.Itoa(int(k)) + ")"
}

// Action is a declarative formatting operation. Only the parameter matching
// Kind is meaningful: Color for ActionColor, Font for ActionFont, Size for
// ActionSize and Level for ActionHeading.
type Action struct {
	Kind  ActionKind
	Color string
	Font  string
	Size  string
	Level int
}

// IsZero reports whether the action does nothing.
func (a Action) IsZero() bool {
	return a.Kind == ActionNone
}

// IsInline reports whether the action changes the style of the text typed
// after it rather than the block structure.
func (a Action) IsInline() bool {
	switch a.Kind {
	case ActionBold, ActionItalic, ActionUnderline, ActionColor, ActionFont, ActionSize:
		return true
	}
	return false
}

// String renders the action for logs, e.g. "heading(2)" or "color(red)".
func (a Action) String() string {
	switch a.Kind {
	case ActionColor:
		return fmt.Sprintf("color(%s)", a.Color)
	case ActionFont:
		return fmt.Sprintf("font(%s)", a.Font)
	case ActionSize:
		return fmt.Sprintf("size(%s)", a.Size)
	case ActionHeading:
		return fmt.Sprintf("heading(%d)", a.Level)
	}
	return a.Kind.String()
}

// validate checks that the parameter required by Kind is present.
func (a Action) validate() error {
	switch a.Kind {
	case ActionColor:
		if a.Color == "" {
			return fmt.Errorf("color action needs a color")
		}
	case ActionFont:
		if a.Font == "" {
			return fmt.Errorf("font action needs a font")
		}
	case ActionSize:
		if a.Size == "" {
			return fmt.Errorf("size action needs a size")
		}
	case ActionHeading:
		if a.Level < 1 || a.Level > 5 {
			return fmt.Errorf("heading level %d out of range 1-5", a.Level)
		}
	}
	return nil
}
