// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Runs the full-screen note editor.

package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/ui/notes"
	"github.com/jeranaias/webnote/internal/ui/styles"
)

// watchDebounce merges bursts of file events for the same note.
const watchDebounce = 300 * time.Millisecond

// runTUI opens the store and runs the editor until the user quits.
func (app *App) runTUI(ctx context.Context) error {
	if err := RequiresTTY("run the editor"); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, dir, err := app.openStore()
	if err != nil {
		// The editor still works without persistence.
		app.logger.Error("note store unavailable", "err", err)
		fmt.Println(WarningStyle.Render("Warning:"), err, "- notes will not be saved")
	}
	if store != nil {
		defer store.Close()
	}

	var watcher *storage.Watcher
	if store != nil && app.cfg.Storage.Watch {
		watcher, err = storage.NewWatcher(dir, watchDebounce)
		if err != nil {
			app.logger.Warn("watching notes directory failed", "dir", dir, "err", err)
		} else {
			watcher.SetLogger(app.logger)
			go watcher.Run(ctx)
			defer watcher.Close()
		}
	}

	model := notes.New(notes.Options{
		Config:   app.cfg,
		Theme:    styles.NewTheme(app.cfg.UI.Theme),
		Store:    store,
		Watcher:  watcher,
		Registry: commands.DefaultRegistry(),
		Logger:   app.logger,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if app.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	p := tea.NewProgram(model, opts...)
	if _, err := p.Run(); err != nil {
		app.logger.Error("editor exited", "err", err)
		return fmt.Errorf("editor: %w", err)
	}
	app.logger.Info("editor closed")
	return nil
}
