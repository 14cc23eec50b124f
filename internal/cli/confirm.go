// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
// The rule for every command that deletes or overwrites:
//   1. With --yes, proceed without prompting
//   2. In --json mode, --yes is required
//   3. When stdin is not a terminal, --yes is required
//   4. Otherwise ask, defaulting to no

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfirmationOptions describes how a command was invoked.
type ConfirmationOptions struct {
	// Yes is set by --yes
	Yes bool
	// JSONMode is set by --json
	JSONMode bool
	// In and Out default to stdin and stdout
	In  io.Reader
	Out io.Writer
}

// ErrConfirmationRequired is returned when a prompt is not possible.
var ErrConfirmationRequired = errors.New("confirmation required: use --yes")

// RequireConfirmation asks whether to go ahead with action. It returns false
// with no error when the user declines.
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if opts.JSONMode {
		return false, ErrConfirmationRequired
	}

	in, out := opts.In, opts.Out
	if in == nil {
		if !IsTTY() {
			return false, fmt.Errorf("stdin is not a terminal: %w", ErrConfirmationRequired)
		}
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "Are you sure you want to %s? [y/N]: ", action)
	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}
