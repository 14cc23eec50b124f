// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Line-oriented note editor.
//
// Command: webnote repl [--open ID]
//
// Each line is typed into the note followed by Enter. Lines starting with
// "/" run a formatting command first ("/h1 Shopping", "/bullet milk",
// "/color red"), Tab completes command names. Lines starting with ":" control
// the session (":save", ":show", ":quit").

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/config"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/export"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/ui/notes"
)

const (
	replTitleLength = 60
	replTimeout     = 5 * time.Second
)

func (app *App) replCommand() *cobra.Command {
	var openID string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Write a note line by line, with slash-command completion",
		Long: `Write a note line by line. Every line is added to the note as if typed in
the editor and followed by Enter; an empty line ends a list.

  /h1 Title        run a command, then type the rest of the line
  /bold            toggle bold for the following text
  :save [title]    save the note
  :show            render the note as Markdown
  :help            list session commands`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := RequiresTTY("run the line editor"); err != nil {
				return err
			}
			return app.runREPL(commandContext(cmd), openID)
		},
	}
	cmd.Flags().StringVar(&openID, "open", "", "continue a saved note (ID or \"latest\")")
	return cmd
}

// =============================================================================
// SESSION
// =============================================================================

// replSession is the state of one REPL run. It is independent of the
// terminal so lines can be fed to it directly.
type replSession struct {
	cfg      *config.Config
	store    storage.Store // nil when notes are not stored
	registry *commands.Registry
	parser   *commands.Parser
	logger   *log.Logger
	out      io.Writer

	doc      *document.Document
	noteID   string
	title    string
	savedRev uint64
}

func newREPLSession(cfg *config.Config, store storage.Store, logger *log.Logger, out io.Writer) *replSession {
	reg := commands.DefaultRegistry()
	s := &replSession{
		cfg:      cfg,
		store:    store,
		registry: reg,
		parser:   commands.NewParser(reg),
		logger:   logger,
		out:      out,
	}
	s.reset()
	return s
}

// reset starts a new, unsaved note.
func (s *replSession) reset() {
	s.doc = document.New()
	s.noteID, s.title = "", ""
	s.savedRev = s.doc.Rev()
}

func (s *replSession) dirty() bool {
	return s.doc.Rev() != s.savedRev && !s.doc.IsEmpty()
}

// processLine handles one input line. quit is set when the session should
// end.
func (s *replSession) processLine(ctx context.Context, line string) (quit bool, err error) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		s.doc.Newline()
		return false, nil
	case strings.HasPrefix(trimmed, ":"):
		return s.meta(ctx, trimmed[1:])
	case commands.IsCommand(trimmed):
		return false, s.command(trimmed)
	}
	if err := s.doc.InsertText(line); err != nil {
		return false, err
	}
	s.doc.Newline()
	return false, nil
}

// command runs a slash command and types the text after it.
func (s *replSession) command(line string) error {
	res := s.parser.Parse(line)
	if res.Err != nil {
		return res.Err
	}
	if err := s.doc.Apply(res.Suggestion.Action); err != nil {
		return err
	}
	s.logger.Debug("command applied", "command", res.Suggestion.DisplayName)
	if res.Text == "" {
		return nil
	}
	if err := s.doc.InsertText(res.Text); err != nil {
		return err
	}
	s.doc.Newline()
	return nil
}

// meta runs a session command (the line without its ":").
func (s *replSession) meta(ctx context.Context, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return true, nil
	case "wq":
		if _, err := s.save(ctx); err != nil {
			return false, err
		}
		return true, nil
	case "save", "w":
		if arg != "" {
			s.title = arg
		}
		id, err := s.save(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Saved"), DimStyle.Render(id))
	case "title":
		if arg == "" {
			return false, errors.New("usage: :title <title>")
		}
		s.title = arg
	case "show":
		out, err := s.renderMarkdown()
		if err != nil {
			return false, err
		}
		fmt.Fprint(s.out, out)
	case "text":
		fmt.Fprintln(s.out, s.doc.PlainText())
	case "md", "markdown":
		fmt.Fprint(s.out, export.RenderMarkdown(s.doc.Blocks()))
	case "clear":
		s.doc.Clear()
	case "new":
		if s.dirty() {
			if _, err := s.save(ctx); err != nil {
				return false, err
			}
		}
		s.reset()
		fmt.Fprintln(s.out, DimStyle.Render("New note"))
	case "open":
		if err := s.open(ctx, arg); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, DimStyle.Render("Opened "+s.title))
	case "list":
		if s.store == nil {
			return false, errNotStored
		}
		ctx, cancel := context.WithTimeout(ctx, replTimeout)
		defer cancel()
		list, err := s.store.List(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprint(s.out, storage.FormatNoteList(list))
	case "export":
		path, err := s.export(arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Exported"), path)
	case "commands":
		for _, c := range s.registry.All() {
			fmt.Fprintf(s.out, "  /%-12s %s\n", c.Name, DimStyle.Render(c.Description))
		}
	case "help", "h", "?":
		fmt.Fprint(s.out, replHelp)
	default:
		return false, fmt.Errorf("unknown session command :%s (try :help)", name)
	}
	return false, nil
}

const replHelp = `Session commands:
  :save [title]    save the note (":w")
  :title <title>   set the note title
  :show            render the note
  :text, :md       print the note as plain text or Markdown
  :export [format] export (html, markdown, json, text, png, pdf, zip)
  :new             save and start a new note
  :open <id>       open a saved note ("latest" for the newest)
  :list            list saved notes
  :clear           clear the note
  :commands        list slash commands
  :quit            leave (":q"; ":wq" saves first)
`

var errNotStored = errors.New("notes are not being stored")

// note encodes the document as a stored note.
func (s *replSession) note() (*storage.Note, error) {
	content, err := s.doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	title := s.title
	if title == "" {
		title = s.doc.Title(replTitleLength)
	}
	return &storage.Note{
		ID:      s.noteID,
		Title:   title,
		Content: content,
		Text:    s.doc.PlainText(),
	}, nil
}

// save stores the note and returns its ID.
func (s *replSession) save(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", errNotStored
	}
	n, err := s.note()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, replTimeout)
	defer cancel()
	id, err := s.store.Save(ctx, n)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	s.noteID, s.title = id, n.Title
	s.savedRev = s.doc.Rev()
	s.logger.Info("note saved", "note", id)
	return id, nil
}

// open replaces the session note with a stored one.
func (s *replSession) open(ctx context.Context, id string) error {
	if s.store == nil {
		return errNotStored
	}
	ctx, cancel := context.WithTimeout(ctx, replTimeout)
	defer cancel()
	n, err := loadNote(ctx, s.store, id)
	if err != nil {
		return err
	}
	doc, err := document.FromJSON(n.Content)
	if err != nil {
		s.logger.Warn("note content damaged, using plain text", "note", n.ID, "err", err)
		doc = document.FromText(n.Text)
	}
	s.doc, s.noteID, s.title = doc, n.ID, n.Title
	s.savedRev = s.doc.Rev()
	return nil
}

func (s *replSession) export(format string) (string, error) {
	if format == "" {
		format = s.cfg.Export.Format
	}
	opts := notes.ExportOptions(s.cfg)
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	n, err := s.note()
	if err != nil {
		return "", err
	}
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	return export.ExportToFile(n, exporter, opts)
}

func (s *replSession) renderMarkdown() (string, error) {
	md := export.RenderMarkdown(s.doc.Blocks())
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle(s.cfg.UI.Theme)),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// =============================================================================
// TERMINAL LOOP
// =============================================================================

func (app *App) runREPL(ctx context.Context, openID string) error {
	store, _, err := app.openStore()
	if err != nil {
		app.logger.Error("note store unavailable", "err", err)
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning:"), err, "- notes will not be saved")
	}
	if store != nil {
		defer store.Close()
	}

	s := newREPLSession(app.cfg, store, app.logger, os.Stdout)
	if openID != "" {
		if err := s.open(ctx, openID); err != nil {
			return err
		}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(s.parser.Complete)

	historyFile := replHistoryPath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveREPLHistory(line, historyFile)

	fmt.Println(TitleStyle.Render("webnote " + Version))
	fmt.Println(DimStyle.Render("Type text, /commands (Tab completes) or :help. :quit leaves."))
	if s.noteID != "" {
		fmt.Println(DimStyle.Render("Editing " + s.title))
	}

	for {
		input, err := line.Prompt("note> ")
		if err != nil {
			// Ctrl+C, Ctrl+D or a closed stdin.
			fmt.Println()
			break
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		quit, err := s.processLine(ctx, input)
		if err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("[Error]"), err)
		}
		if quit {
			break
		}
	}

	if s.dirty() && app.cfg.Editor.AutoSave && store != nil {
		id, err := s.save(ctx)
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Saved"), DimStyle.Render(id))
	}
	return nil
}

func replHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "repl_history")
}

// saveREPLHistory writes the line history, readable only by the owner.
func saveREPLHistory(line *liner.State, path string) {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
