// json_output.go - JSON output for scripting.
//
// Every command accepts --json and then writes a single JSONResponse to
// stdout. Human-readable messages go to stderr in that mode.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/webnote/internal/storage"
)

// JSONResponse is the response envelope for all commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// OutputJSON runs handler and, in JSON mode, writes its result or error as a
// JSONResponse to w.
func OutputJSON(jsonMode bool, w io.Writer, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		_ = NewJSONErrorResponse(command, err).Print(w)
		return err
	}
	return NewJSONResponse(command, data).Print(w)
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// NoteListData is returned by the list command.
type NoteListData struct {
	Query string             `json:"query,omitempty"`
	Count int                `json:"count"`
	Notes []storage.NoteMeta `json:"notes"`
}

// NoteData is returned by the show command.
type NoteData struct {
	storage.NoteMeta
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// ExportData is returned by the export command.
type ExportData struct {
	NoteID string `json:"note_id"`
	Format string `json:"format"`
	Path   string `json:"path"`
	Mime   string `json:"mime_type"`
}

// ImportData is returned by the import command.
type ImportData struct {
	NoteID string `json:"note_id"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// ConfigData is returned by the config show command.
type ConfigData struct {
	Path     string                 `json:"config_path"`
	Settings map[string]interface{} `json:"settings"`
}
