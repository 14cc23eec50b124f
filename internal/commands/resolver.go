// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
)

// =============================================================================
// SUGGESTIONS
// =============================================================================

// Suggestion is one candidate shown in the command palette.
type Suggestion struct {
	// DisplayName is "name" for commands and "parent sub" for sub-commands
	DisplayName string

	// Description is the help text shown next to the name
	Description string

	// Action is what executing the suggestion does. It is zero for a
	// command that owns sub-commands.
	Action Action

	// Command is the matched command, or the parent of Sub
	Command *Command

	// Sub is set for sub-command suggestions
	Sub *SubCommand
}

// IsSubcommand reports whether the suggestion is a sub-command match.
func (s Suggestion) IsSubcommand() bool {
	return s.Sub != nil
}

// Descends reports whether choosing the suggestion opens its sub-commands
// instead of running an action.
func (s Suggestion) Descends() bool {
	return s.Sub == nil && s.Command != nil && s.Command.HasSubcommands()
}

// Completion returns the text that replaces the token when the suggestion is
// chosen, without the leading slash.
func (s Suggestion) Completion() string {
	if s.Descends() {
		return s.Command.Name + " "
	}
	return s.DisplayName
}

// =============================================================================
// SUGGESTION RESOLVER
// =============================================================================

// Resolve maps a token to the ordered list of matching suggestions.
//
// A single part matches commands whose name starts with it or whose
// description contains it, ignoring case; name matches come first. Two parts
// select the command named by the first and match its sub-commands by name
// prefix. Anything else resolves to nothing.
func Resolve(r *Registry, tok Token) []Suggestion {
	if len(tok.Parts) == 0 || tok.Parts[0] == "" {
		return nil
	}

	switch len(tok.Parts) {
	case 1:
		return resolveCommands(r, tok.Parts[0])
	case 2:
		subs, err := ResolveSubcommands(r, tok.Parts[0], tok.Parts[1])
		if err != nil {
			return nil
		}
		return subs
	}
	return nil
}

func resolveCommands(r *Registry, query string) []Suggestion {
	q := strings.ToLower(query)

	var byName, byDesc []Suggestion
	for _, cmd := range r.commands {
		name := strings.ToLower(cmd.Name)
		switch {
		case strings.HasPrefix(name, q):
			byName = append(byName, commandSuggestion(cmd))
		case strings.Contains(strings.ToLower(cmd.Description), q):
			byDesc = append(byDesc, commandSuggestion(cmd))
		}
	}

	return append(byName, byDesc...)
}

// ResolveSubcommands lists the sub-commands of parent whose names start with
// prefix. It returns ErrUnknownCommand when parent does not exist.
func ResolveSubcommands(r *Registry, parent, prefix string) ([]Suggestion, error) {
	cmd, ok := r.Lookup(parent)
	if !ok {
		return nil, ErrUnknownCommand
	}

	p := strings.ToLower(prefix)
	var out []Suggestion
	for i := range cmd.Subcommands {
		sub := &cmd.Subcommands[i]
		if strings.HasPrefix(strings.ToLower(sub.Name), p) {
			out = append(out, Suggestion{
				DisplayName: cmd.Name + " " + sub.Name,
				Description: sub.Description,
				Action:      sub.Action,
				Command:     cmd,
				Sub:         sub,
			})
		}
	}
	return out, nil
}

func commandSuggestion(cmd *Command) Suggestion {
	return Suggestion{
		DisplayName: cmd.Name,
		Description: cmd.Description,
		Action:      cmd.Action,
		Command:     cmd,
	}
}
