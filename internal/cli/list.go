// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// list.go - Saved note commands.
//
// Commands:
//   webnote list [QUERY]       List notes, or search titles and text
//   webnote show ID|latest     Print a note
//   webnote delete ID          Delete a note

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/export"
	"github.com/jeranaias/webnote/internal/storage"
)

// withStore opens the store for the duration of fn.
func (app *App) withStore(fn func(storage.Store) error) error {
	store, _, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// =============================================================================
// LIST
// =============================================================================

func (app *App) listCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list [query]",
		Aliases: []string{"ls", "search"},
		Short:   "List saved notes, newest first",
		Long: `List saved notes, most recently updated first. With a query, only notes
whose title or text contain it are listed; case and accents are ignored.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			return OutputJSON(app.Flags.JSON, cmd.OutOrStdout(), "list", func() (interface{}, error) {
				list, err := app.listNotes(commandContext(cmd), query, limit)
				if err != nil {
					return nil, err
				}
				if !app.Flags.JSON {
					fmt.Fprint(cmd.OutOrStdout(), storage.FormatNoteList(list))
				}
				return NoteListData{Query: query, Count: len(list), Notes: list}, nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most N notes")
	return cmd
}

func (app *App) listNotes(ctx context.Context, query string, limit int) ([]storage.NoteMeta, error) {
	var list []storage.NoteMeta
	err := app.withStore(func(store storage.Store) error {
		var err error
		if query == "" {
			list, err = store.List(ctx)
		} else {
			list, err = store.Search(ctx, query)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// =============================================================================
// SHOW
// =============================================================================

func (app *App) showCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <id|latest>",
		Short: "Print a saved note",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := "latest"
			if len(args) > 0 {
				id = args[0]
			}
			out := cmd.OutOrStdout()
			return OutputJSON(app.Flags.JSON, out, "show", func() (interface{}, error) {
				var n *storage.Note
				err := app.withStore(func(store storage.Store) error {
					var err error
					n, err = loadNote(commandContext(cmd), store, id)
					return err
				})
				if err != nil {
					return nil, err
				}

				md := noteMarkdown(n)
				if !app.Flags.JSON {
					if raw || !IsStdoutTTY() {
						fmt.Fprint(out, md)
						return nil, nil
					}
					r, err := glamour.NewTermRenderer(
						glamour.WithStandardStyle(markdownStyle(app.cfg.UI.Theme)),
						glamour.WithWordWrap(GetTerminalWidth()-4),
					)
					if err != nil {
						return nil, err
					}
					rendered, err := r.Render(md)
					if err != nil {
						return nil, err
					}
					fmt.Fprint(out, rendered)
				}
				return NoteData{NoteMeta: n.Meta(), Text: n.Text, Markdown: md}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without rendering")
	return cmd
}

// noteMarkdown renders a stored note's document as Markdown under its title.
func noteMarkdown(n *storage.Note) string {
	doc, err := document.FromJSON(n.Content)
	if err != nil {
		doc = document.FromText(n.Text)
	}
	return "# " + n.Title + "\n\n" + export.RenderMarkdown(doc.Blocks())
}

// =============================================================================
// DELETE
// =============================================================================

func (app *App) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			return OutputJSON(app.Flags.JSON, cmd.OutOrStdout(), "delete", func() (interface{}, error) {
				var deleted storage.NoteMeta
				err := app.withStore(func(store storage.Store) error {
					n, err := loadNote(ctx, store, args[0])
					if err != nil {
						return err
					}
					ok, err := RequireConfirmation(fmt.Sprintf("delete %q", n.Title), confirmOptions(cmd, yes, app.Flags.JSON))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render("Cancelled."))
						return nil
					}
					if err := store.Delete(ctx, n.ID); err != nil {
						return err
					}
					deleted = n.Meta()
					app.logger.Info("note deleted", "note", n.ID)
					if !app.Flags.JSON {
						fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Deleted"), n.Title)
					}
					return nil
				})
				return deleted, err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirmOptions reads answers from the command's input when it was
// redirected, as in tests.
func confirmOptions(cmd *cobra.Command, yes, jsonMode bool) ConfirmationOptions {
	opts := ConfirmationOptions{Yes: yes, JSONMode: jsonMode, Out: cmd.OutOrStdout()}
	if in := cmd.InOrStdin(); in != os.Stdin {
		opts.In = in
	}
	return opts
}
