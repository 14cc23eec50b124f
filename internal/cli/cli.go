// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command tree and shared setup for webnote.
//
// Command: webnote [command]
//
// Examples:
//   webnote                          Open the note editor
//   webnote --backend sqlite         Use the SQLite store for this run
//   webnote repl                     Line-oriented editor with tab completion
//   webnote list                     List saved notes
//   webnote export latest -f html    Export the most recent note
//   webnote config set ui.theme dark
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/webnote/internal/config"
	"github.com/jeranaias/webnote/internal/logging"
	"github.com/jeranaias/webnote/internal/storage"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION
// =============================================================================

// Flags holds the global command-line flags.
type Flags struct {
	ConfigFile string
	Backend    string
	DataDir    string
	Theme      string
	LogLevel   string
	JSON       bool
	NoMouse    bool
}

// App is the webnote command-line application.
type App struct {
	Flags Flags

	cfg      *config.Config
	logger   *log.Logger
	closeLog func() error
}

// NewApp creates the application.
func NewApp() *App {
	return &App{closeLog: func() error { return nil }}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	app := NewApp()
	root := app.RootCommand()
	err := root.Execute()
	_ = app.closeLog()
	if err != nil {
		if !app.Flags.JSON {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		}
		return 1
	}
	return 0
}

// RootCommand builds the command tree. The root command opens the editor.
func (app *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "webnote",
		Short: "Rich-text notes with slash commands, in the terminal",
		Long: `webnote is a terminal note editor. Type "/" to open the command palette
(bold, headings, lists, checkboxes, colors and more), switch to drawing mode
with Ctrl+D, and find older notes with Ctrl+O. Notes are saved automatically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&app.Flags.ConfigFile, "config", "c", "", "config file (default ~/.webnote/config.toml)")
	pf.StringVar(&app.Flags.Backend, "backend", "", "storage backend: file or sqlite")
	pf.StringVar(&app.Flags.DataDir, "data-dir", "", "notes directory")
	pf.StringVar(&app.Flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&app.Flags.JSON, "json", false, "machine-readable output")
	root.Flags().StringVar(&app.Flags.Theme, "theme", "", "color theme: auto, dark or light")
	root.Flags().BoolVar(&app.Flags.NoMouse, "no-mouse", false, "disable mouse support")

	root.AddCommand(
		app.replCommand(),
		app.listCommand(),
		app.showCommand(),
		app.deleteCommand(),
		app.exportCommand(),
		app.importCommand(),
		app.configCommand(),
		app.versionCommand(),
	)
	return root
}

// setup loads the configuration and applies the global flags.
func (app *App) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if app.Flags.ConfigFile != "" {
		config.LoadDotEnv()
		if _, statErr := os.Stat(app.Flags.ConfigFile); os.IsNotExist(statErr) {
			// "config init" and "config set" create it.
			cfg = config.Default()
			cfg.ApplyEnvOverrides()
			cfg.SetDefaults()
		} else if cfg, err = config.LoadFromPath(app.Flags.ConfigFile); err != nil {
			return err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return err
		}
		if err != nil && !app.Flags.JSON {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning:"), err, "(using defaults)")
		}
	}

	if app.Flags.Backend != "" {
		cfg.Storage.Backend = app.Flags.Backend
	}
	if app.Flags.DataDir != "" {
		cfg.Storage.Dir = app.Flags.DataDir
	}
	if app.Flags.Theme != "" {
		cfg.UI.Theme = app.Flags.Theme
	}
	if app.Flags.LogLevel != "" {
		cfg.Log.Level = app.Flags.LogLevel
	}
	if app.Flags.NoMouse {
		cfg.UI.Mouse = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	app.cfg = cfg

	// The editor owns the terminal, so it logs to a file. Other commands log
	// warnings to stderr.
	if cmd.Name() == "webnote" || cmd.Name() == "repl" {
		path, err := cfg.LogPath()
		if err != nil {
			return err
		}
		logger, closer, err := logging.New(logging.Options{
			Level:           cfg.Log.Level,
			File:            path,
			ReportTimestamp: true,
		})
		if err != nil {
			return err
		}
		app.logger, app.closeLog = logger, closer
	} else {
		app.logger = logging.NewConsole(cfg.Log.Level)
	}
	app.logger.Debug("starting", "command", cmd.Name(), "version", Version, "go", runtime.Version())
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// openStore opens the configured note store.
func (app *App) openStore() (storage.Store, string, error) {
	dir, err := app.cfg.StorageDir()
	if err != nil {
		return nil, "", err
	}
	device, err := storage.DeviceID(dir)
	if err != nil {
		return nil, "", fmt.Errorf("device id: %w", err)
	}
	store, err := storage.Open(storage.Options{
		Backend:  app.cfg.Storage.Backend,
		Dir:      dir,
		DeviceID: device,
		MaxNotes: app.cfg.Storage.MaxNotes,
	})
	if err != nil {
		return nil, "", fmt.Errorf("open note store: %w", err)
	}
	return store, dir, nil
}

// loadNote loads a note by ID, or the most recent one for "latest".
func loadNote(ctx context.Context, store storage.Store, id string) (*storage.Note, error) {
	if id == "latest" || id == "" {
		n, err := store.Latest(ctx)
		if errors.Is(err, storage.ErrNoteNotFound) {
			return nil, errors.New("no notes saved yet")
		}
		return n, err
	}
	return store.Load(ctx, id)
}

// commandContext returns the command's context, or a background one when
// the command runs outside Execute (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (app *App) versionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version":    Version,
				"git_commit": GitCommit,
				"build_date": BuildDate,
				"go":         runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}
			if app.Flags.JSON {
				return NewJSONResponse("version", info).Print(cmd.OutOrStdout())
			}
			detailed, _ := cmd.Flags().GetBool("detailed")
			if !detailed {
				fmt.Fprintf(cmd.OutOrStdout(), "webnote %s\n", Version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "webnote %s (%s, built %s) %s %s\n",
				Version, GitCommit, BuildDate, info["go"], info["platform"])
			return nil
		},
	}
	cmd.Flags().Bool("detailed", false, "show build details")
	return cmd
}
