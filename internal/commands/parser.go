// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing a line typed at the REPL.
type ParseResult struct {
	// IsCommand is true if the line starts with /
	IsCommand bool

	// Suggestion is the fully resolved command, set when Err is nil
	Suggestion Suggestion

	// Text is everything after the command words
	Text string

	// RawInput is the original line
	RawInput string

	// Err is set when the line names an unknown or incomplete command
	Err error
}

// =============================================================================
// LINE PARSER
// =============================================================================

// Parser resolves whole lines against a registry. Unlike Resolve, which
// works on a partial token, a line must name a command exactly.
type Parser struct {
	registry *Registry
}

// NewParser creates a new parser with the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse parses a line such as "/color red some text". Lines that do not start
// with "/" are plain text.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	result := ParseResult{RawInput: input}

	if !strings.HasPrefix(input, "/") {
		result.Text = input
		return result
	}
	result.IsCommand = true

	name, rest := cutWord(input[1:])
	if name == "" {
		result.Err = fmt.Errorf("empty command: %w", ErrUnknownCommand)
		return result
	}

	cmd, ok := p.registry.Lookup(name)
	if !ok {
		result.Err = fmt.Errorf("/%s: %w", name, ErrUnknownCommand)
		return result
	}

	if !cmd.HasSubcommands() {
		result.Suggestion = commandSuggestion(cmd)
		result.Text = rest
		return result
	}

	subName, rest := cutWord(rest)
	if subName == "" {
		result.Err = fmt.Errorf("/%s needs one of: %s", cmd.Name, strings.Join(subNames(cmd), ", "))
		return result
	}
	sub, ok := cmd.Subcommand(subName)
	if !ok {
		result.Err = fmt.Errorf("/%s %s: %w", cmd.Name, subName, ErrUnknownCommand)
		return result
	}

	result.Suggestion = Suggestion{
		DisplayName: cmd.Name + " " + sub.Name,
		Description: sub.Description,
		Action:      sub.Action,
		Command:     cmd,
		Sub:         &sub,
	}
	result.Text = rest
	return result
}

// Complete returns the candidate lines for tab completion of line, using the
// same matching as the editor palette on the token at the end of the line.
func (p *Parser) Complete(line string) []string {
	n := len([]rune(line))
	tok, ok := LocateIn(line, 0, n)
	if !ok {
		return nil
	}

	prefix := string([]rune(line)[:tok.Slash])
	items := Resolve(p.registry, tok)
	out := make([]string, 0, len(items))
	for _, item := range items {
		c := prefix + "/" + item.Completion()
		if !item.Descends() {
			c += " "
		}
		out = append(out, c)
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand returns true if the input appears to be a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// cutWord splits s after its first whitespace-delimited word.
func cutWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end == -1 {
		return s, ""
	}
	return s[:end], strings.TrimLeftFunc(s[end:], unicode.IsSpace)
}

func subNames(cmd *Command) []string {
	names := make([]string, len(cmd.Subcommands))
	for i, sub := range cmd.Subcommands {
		names[i] = sub.Name
	}
	return names
}
