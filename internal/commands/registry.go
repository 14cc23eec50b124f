// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be invoked from the editor.
// A command carries either an Action or a list of Subcommands, never both.
type Command struct {
	// Name is the match key without the leading slash (e.g., "bold")
	Name string

	// Description is shown in the palette and searched when filtering
	Description string

	// Action runs when the command is chosen directly
	Action Action

	// Subcommands are offered after "/name " is typed
	Subcommands []SubCommand
}

// SubCommand is a named action scoped under a parent command.
type SubCommand struct {
	Name        string
	Description string
	Action      Action
}

// HasSubcommands reports whether the command is a parent of sub-commands.
func (c *Command) HasSubcommands() bool {
	return len(c.Subcommands) > 0
}

// Subcommand returns the sub-command with the given name (case-insensitive).
func (c *Command) Subcommand(name string) (SubCommand, bool) {
	name = strings.ToLower(name)
	for _, sub := range c.Subcommands {
		if strings.ToLower(sub.Name) == name {
			return sub, true
		}
	}
	return SubCommand{}, false
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the catalog of commands. It is immutable once built and is
// safe to share between editor sessions.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry validates the commands and builds a registry preserving their
// order. It fails if a command has both or neither of Action and Subcommands,
// or if names collide.
func NewRegistry(cmds ...*Command) (*Registry, error) {
	r := &Registry{
		commands: make([]*Command, 0, len(cmds)),
		byName:   make(map[string]*Command, len(cmds)),
	}

	for _, cmd := range cmds {
		if cmd == nil {
			return nil, fmt.Errorf("nil command")
		}
		if err := validateName(cmd.Name); err != nil {
			return nil, fmt.Errorf("command %q: %w", cmd.Name, err)
		}

		key := strings.ToLower(cmd.Name)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("command %q: duplicate name", cmd.Name)
		}

		hasAction := !cmd.Action.IsZero()
		if hasAction == cmd.HasSubcommands() {
			return nil, fmt.Errorf("command %q: must have exactly one of action or subcommands", cmd.Name)
		}
		if hasAction {
			if err := cmd.Action.validate(); err != nil {
				return nil, fmt.Errorf("command %q: %w", cmd.Name, err)
			}
		}

		seen := make(map[string]bool, len(cmd.Subcommands))
		for _, sub := range cmd.Subcommands {
			if err := validateName(sub.Name); err != nil {
				return nil, fmt.Errorf("command %q subcommand %q: %w", cmd.Name, sub.Name, err)
			}
			subKey := strings.ToLower(sub.Name)
			if seen[subKey] {
				return nil, fmt.Errorf("command %q subcommand %q: duplicate name", cmd.Name, sub.Name)
			}
			seen[subKey] = true
			if sub.Action.IsZero() {
				return nil, fmt.Errorf("command %q subcommand %q: missing action", cmd.Name, sub.Name)
			}
			if err := sub.Action.validate(); err != nil {
				return nil, fmt.Errorf("command %q subcommand %q: %w", cmd.Name, sub.Name, err)
			}
		}

		r.commands = append(r.commands, cmd)
		r.byName[key] = cmd
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid catalog.
// Intended for static, compiled-in command tables.
func MustRegistry(cmds ...*Command) *Registry {
	r, err := NewRegistry(cmds...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup retrieves a command by name, ignoring case.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns all commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	return len(r.commands)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("name must not start with '/'")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("name must not contain whitespace")
	}
	return nil
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

// Colors offered by /color.
var Colors = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// Fonts offered by /font.
var Fonts = []string{"sans", "serif", "mono"}

// Sizes offered by /size.
var Sizes = []string{"small", "normal", "large", "huge"}

// DefaultRegistry returns the built-in command catalog.
func DefaultRegistry() *Registry {
	return MustRegistry(builtinCommands()...)
}

func builtinCommands() []*Command {
	cmds := []*Command{
		{
			Name:        "end",
			Description: "End current formatting",
			Action:      Action{Kind: ActionEnd},
		},
		{
			Name:        "bold",
			Description: "Start bold text",
			Action:      Action{Kind: ActionBold},
		},
		{
			Name:        "italic",
			Description: "Start italic text",
			Action:      Action{Kind: ActionItalic},
		},
		{
			Name:        "underline",
			Description: "Start underlined text",
			Action:      Action{Kind: ActionUnderline},
		},
		{
			Name:        "color",
			Description: "Start colored text",
			Subcommands: paramSubcommands(Colors, "Set text color to ", func(v string) Action {
				return Action{Kind: ActionColor, Color: v}
			}),
		},
		{
			Name:        "font",
			Description: "Change font family",
			Subcommands: paramSubcommands(Fonts, "Switch to the font family ", func(v string) Action {
				return Action{Kind: ActionFont, Font: v}
			}),
		},
		{
			Name:        "size",
			Description: "Change font size",
			Subcommands: paramSubcommands(Sizes, "Set text size to ", func(v string) Action {
				return Action{Kind: ActionSize, Size: v}
			}),
		},
		{
			Name:        "checkbox",
			Description: "Start checkbox list",
			Action:      Action{Kind: ActionCheckbox},
		},
	}

	for level := 1; level <= 5; level++ {
		cmds = append(cmds, &Command{
			Name:        fmt.Sprintf("h%d", level),
			Description: fmt.Sprintf("Heading %d", level),
			Action:      Action{Kind: ActionHeading, Level: level},
		})
	}

	cmds = append(cmds,
		&Command{
			Name:        "bullet",
			Description: "Add a bullet point",
			Action:      Action{Kind: ActionBullet},
		},
		&Command{
			Name:        "numbered",
			Description: "Add a numbered list item",
			Action:      Action{Kind: ActionNumbered},
		},
		&Command{
			Name:        "quote",
			Description: "Start a quote block",
			Action:      Action{Kind: ActionQuote},
		},
		&Command{
			Name:        "code",
			Description: "Start a code block",
			Action:      Action{Kind: ActionCode},
		},
	)

	return cmds
}

func paramSubcommands(values []string, descPrefix string, mk func(string) Action) []SubCommand {
	subs := make([]SubCommand, 0, len(values))
	for _, v := range values {
		subs = append(subs, SubCommand{
			Name:        v,
			Description: descPrefix + v,
			Action:      mk(v),
		})
	}
	return subs
}
