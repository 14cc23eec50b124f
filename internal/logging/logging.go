// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the structured logger shared by webnote
// components. The TUI owns the terminal, so interactive runs log to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Level is "debug", "info", "warn", "error" or "fatal"
	Level string
	// File is the log file path; empty logs to Writer
	File string
	// Writer is used when File is empty (nil = discard)
	Writer io.Writer
	// ReportTimestamp adds timestamps to each line
	ReportTimestamp bool
}

// New builds a logger from opts. The returned closer releases the log file
// and is never nil.
func New(opts Options) (*log.Logger, func() error, error) {
	var out io.Writer = io.Discard
	closer := func() error { return nil }

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, closer, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closer = file.Close
	case opts.Writer != nil:
		out = opts.Writer
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: opts.ReportTimestamp,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           ParseLevel(opts.Level),
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel converts a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Component returns a child logger whose lines are prefixed with name.
func Component(parent *log.Logger, name string) *log.Logger {
	if parent == nil {
		return Discard()
	}
	return parent.WithPrefix(name)
}

// NewConsole returns a styled stderr logger for CLI subcommands.
func NewConsole(level string) *log.Logger {
	styles := log.DefaultStyles()
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("214")).
		Foreground(lipgloss.Color("15"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("196")).
		Foreground(lipgloss.Color("15"))
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Keys["note"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: ParseLevel(level)})
	logger.SetStyles(styles)
	return logger
}
