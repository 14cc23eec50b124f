// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Export and import commands.
//
// Commands:
//   webnote export ID|latest [-f FORMAT] [-o DIR] [--stdout]
//   webnote import FILE [--title TITLE]
//
// Formats: html, markdown, json, text, png (drawing only), pdf, zip (all of them).
// JSON exports can be imported again; other files are imported as text.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/export"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/ui/notes"
)

// =============================================================================
// EXPORT
// =============================================================================

func (app *App) exportCommand() *cobra.Command {
	var (
		format   string
		outDir   string
		toStdout bool
		open     bool
	)
	cmd := &cobra.Command{
		Use:   "export <id|latest>",
		Short: "Export a note to HTML, Markdown, JSON, text, PNG, PDF or a zip bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := "latest"
			if len(args) > 0 {
				id = args[0]
			}
			if format == "" {
				format = app.cfg.Export.Format
			}
			opts := notes.ExportOptions(app.cfg)
			if outDir != "" {
				opts.OutputDir = outDir
			}
			if open {
				opts.OpenAfterExport = true
			}
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return fmt.Errorf("%w (supported: %s)", err, strings.Join(export.Formats, ", "))
			}

			var n *storage.Note
			err = app.withStore(func(store storage.Store) error {
				var err error
				n, err = loadNote(commandContext(cmd), store, id)
				return err
			})
			if err != nil {
				return err
			}

			if toStdout {
				data, err := exporter.Export(n)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			return OutputJSON(app.Flags.JSON, cmd.OutOrStdout(), "export", func() (interface{}, error) {
				path, err := export.ExportToFile(n, exporter, opts)
				if errors.Is(err, export.ErrNothingToExport) {
					return nil, fmt.Errorf("note %q has nothing to export as %s", n.Title, format)
				}
				if err != nil {
					return nil, err
				}
				app.logger.Info("note exported", "note", n.ID, "format", format, "path", path)
				if !app.Flags.JSON {
					fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Exported"), path)
				}
				return ExportData{NoteID: n.ID, Format: format, Path: path, Mime: exporter.MimeType()}, nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write to stdout instead of a file")
	cmd.Flags().BoolVar(&open, "open", false, "open the file after exporting")
	return cmd
}

// =============================================================================
// IMPORT
// =============================================================================

func (app *App) importCommand() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON export or a text file as a new note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return OutputJSON(app.Flags.JSON, cmd.OutOrStdout(), "import", func() (interface{}, error) {
				n, err := readImport(args[0])
				if err != nil {
					return nil, err
				}
				if title != "" {
					n.Title = title
				}

				var id string
				err = app.withStore(func(store storage.Store) error {
					var err error
					id, err = store.Save(commandContext(cmd), n)
					return err
				})
				if err != nil {
					return nil, err
				}
				app.logger.Info("note imported", "note", id, "source", args[0])
				if !app.Flags.JSON {
					fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Imported"), n.Title, DimStyle.Render(id))
				}
				return ImportData{NoteID: id, Title: n.Title, Source: args[0]}, nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title of the new note")
	return cmd
}

// readImport builds a new note from a file. The imported note always gets a
// fresh ID so an existing note is never overwritten.
func readImport(path string) (*storage.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var n storage.Note
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("%s: not a webnote JSON export: %w", path, err)
		}
		doc, err := document.FromJSON(n.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: damaged note content: %w", path, err)
		}
		n.ID, n.DeviceID = "", ""
		n.Text = doc.PlainText()
		return &n, nil
	}

	doc := document.FromText(strings.ReplaceAll(string(data), "\r\n", "\n"))
	content, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	title := doc.Title(replTitleLength)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &storage.Note{Title: title, Content: content, Text: doc.PlainText()}, nil
}
