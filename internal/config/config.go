// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete webnote configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Editor  EditorConfig  `toml:"editor" json:"editor"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Export  ExportConfig  `toml:"export" json:"export"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// EditorConfig controls editing and auto-save.
type EditorConfig struct {
	// AutoSave saves notes automatically after edits
	AutoSave bool `toml:"auto_save" json:"auto_save"`
	// AutoSaveDelayMs is the quiet period after typing before saving
	AutoSaveDelayMs int `toml:"auto_save_delay_ms" json:"auto_save_delay_ms"`
	// SafetySaveSecs is the interval of the periodic save of dirty notes
	SafetySaveSecs int `toml:"safety_save_secs" json:"safety_save_secs"`
	// MaxSuggestions limits the rows of the command popup
	MaxSuggestions int `toml:"max_suggestions" json:"max_suggestions"`
	// RestoreLast reopens the most recent note at startup
	RestoreLast bool `toml:"restore_last" json:"restore_last"`
	// CanvasWidth and CanvasHeight size new drawings, in cells
	CanvasWidth  int `toml:"canvas_width" json:"canvas_width"`
	CanvasHeight int `toml:"canvas_height" json:"canvas_height"`
	// BrushColor is the initial drawing color (name or #rrggbb)
	BrushColor string `toml:"brush_color" json:"brush_color"`
	// BrushSize is the initial brush size (1-5)
	BrushSize int `toml:"brush_size" json:"brush_size"`
}

// StorageConfig selects where notes are kept.
type StorageConfig struct {
	// Backend is "file" (one JSON file per note) or "sqlite"
	Backend string `toml:"backend" json:"backend"`
	// Dir is the data directory (empty = ~/.webnote/notes)
	Dir string `toml:"dir" json:"dir"`
	// MaxNotes limits stored notes per device (0 = unlimited)
	MaxNotes int `toml:"max_notes" json:"max_notes"`
	// Watch reloads notes changed by other webnote instances
	Watch bool `toml:"watch" json:"watch"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	// Dir is where exported files are written
	Dir string `toml:"dir" json:"dir"`
	// Format is the default export format
	Format string `toml:"format" json:"format"`
	// Theme is the HTML export theme ("light" or "dark")
	Theme string `toml:"theme" json:"theme"`
	// OpenAfter opens exported files in the default application
	OpenAfter bool `toml:"open_after" json:"open_after"`
	// IncludeMetadata adds dates and word counts to exports
	IncludeMetadata bool `toml:"include_metadata" json:"include_metadata"`
	// PNGScale is the pixel size of one canvas cell
	PNGScale int `toml:"png_scale" json:"png_scale"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme"`
	// Mouse enables mouse support (popup clicks, drawing)
	Mouse bool `toml:"mouse" json:"mouse"`
	// ShowWordCount shows word and character counts in the status bar
	ShowWordCount bool `toml:"show_word_count" json:"show_word_count"`
}

// LogConfig configures the debug log. The TUI owns the terminal, so logs
// only go to a file.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" json:"level"`
	// File is the log path (empty = ~/.webnote/webnote.log)
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Editor: EditorConfig{
			AutoSave:        true,
			AutoSaveDelayMs: 2000,
			SafetySaveSecs:  30,
			MaxSuggestions:  8,
			RestoreLast:     true,
			CanvasWidth:     60,
			CanvasHeight:    20,
			BrushColor:      canvas.DefaultColor,
			BrushSize:       canvas.DefaultBrush,
		},
		Storage: StorageConfig{
			Backend:  "file",
			MaxNotes: 100,
			Watch:    true,
		},
		Export: ExportConfig{
			Dir:             ".",
			Format:          "html",
			Theme:           "light",
			IncludeMetadata: true,
			PNGScale:        8,
		},
		UI: UIConfig{
			Theme:         "auto",
			Mouse:         true,
			ShowWordCount: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the webnote configuration directory path. WEBNOTE_HOME
// overrides the default ~/.webnote.
func ConfigDir() (string, error) {
	if dir := os.Getenv("WEBNOTE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".webnote"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// StorageDir returns the resolved notes data directory.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return expandHome(c.Storage.Dir), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notes"), nil
}

// LogPath returns the resolved log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "webnote.log"), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default location. TOML is preferred over
// JSON; with neither present the defaults are used. Environment overrides,
// including those from .env files, are applied last.
//
// When a config file exists but cannot be read, Load returns the defaults
// together with the error.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := Default()
	var loadErr error

	if path, err := ConfigPathTOML(); err == nil && fileExists(path) {
		if err := LoadTOML(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			cfg = Default()
		} else {
			return finish(cfg)
		}
	} else if path, err := ConfigPathJSON(); err == nil && fileExists(path) {
		if err := LoadJSON(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			cfg = Default()
		} else {
			return finish(cfg)
		}
	}

	cfg, err := finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// finish applies overrides and defaults, then validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadDotEnv loads .env from the working directory and the config
// directory. Variables already set in the environment win.
func LoadDotEnv() {
	files := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if fileExists(f) {
			// A malformed .env must not prevent startup.
			_ = godotenv.Load(f)
		}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# webnote configuration file\n")
	sb.WriteString("# Generated by webnote - edit with care\n")
	sb.WriteString("\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(sb.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Editor
	if c.Editor.AutoSaveDelayMs < 100 || c.Editor.AutoSaveDelayMs > 60000 {
		add("editor.auto_save_delay_ms", "must be between 100 and 60000, got %d", c.Editor.AutoSaveDelayMs)
	}
	if c.Editor.SafetySaveSecs < 5 || c.Editor.SafetySaveSecs > 3600 {
		add("editor.safety_save_secs", "must be between 5 and 3600, got %d", c.Editor.SafetySaveSecs)
	}
	if c.Editor.MaxSuggestions < 1 || c.Editor.MaxSuggestions > 50 {
		add("editor.max_suggestions", "must be between 1 and 50, got %d", c.Editor.MaxSuggestions)
	}
	if c.Editor.CanvasWidth < 4 || c.Editor.CanvasWidth > 1000 {
		add("editor.canvas_width", "must be between 4 and 1000, got %d", c.Editor.CanvasWidth)
	}
	if c.Editor.CanvasHeight < 4 || c.Editor.CanvasHeight > 1000 {
		add("editor.canvas_height", "must be between 4 and 1000, got %d", c.Editor.CanvasHeight)
	}
	if _, err := canvas.NormalizeColor(c.Editor.BrushColor); err != nil {
		add("editor.brush_color", "invalid color '%s'", c.Editor.BrushColor)
	}
	if c.Editor.BrushSize < canvas.MinBrush || c.Editor.BrushSize > canvas.MaxBrush {
		add("editor.brush_size", "must be between %d and %d, got %d", canvas.MinBrush, canvas.MaxBrush, c.Editor.BrushSize)
	}

	// Storage
	if !oneOf(c.Storage.Backend, "file", "sqlite") {
		add("storage.backend", "invalid backend '%s', must be one of: file, sqlite", c.Storage.Backend)
	}
	if c.Storage.MaxNotes < 0 {
		add("storage.max_notes", "must not be negative, got %d", c.Storage.MaxNotes)
	}

	// Export
	if !oneOf(c.Export.Format, "html", "markdown", "json", "text", "png", "pdf", "zip") {
		add("export.format", "invalid format '%s', must be one of: html, markdown, json, text, png, pdf, zip", c.Export.Format)
	}
	if !oneOf(c.Export.Theme, "light", "dark") {
		add("export.theme", "invalid theme '%s', must be one of: light, dark", c.Export.Theme)
	}
	if c.Export.PNGScale < 1 || c.Export.PNGScale > 64 {
		add("export.png_scale", "must be between 1 and 64, got %d", c.Export.PNGScale)
	}

	// UI
	if !oneOf(c.UI.Theme, "auto", "dark", "light") {
		add("ui.theme", "invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme)
	}

	// Log
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// SetDefaults fills zero-valued fields that have no meaningful zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Editor.AutoSaveDelayMs == 0 {
		c.Editor.AutoSaveDelayMs = defaults.Editor.AutoSaveDelayMs
	}
	if c.Editor.SafetySaveSecs == 0 {
		c.Editor.SafetySaveSecs = defaults.Editor.SafetySaveSecs
	}
	if c.Editor.MaxSuggestions == 0 {
		c.Editor.MaxSuggestions = defaults.Editor.MaxSuggestions
	}
	if c.Editor.CanvasWidth == 0 {
		c.Editor.CanvasWidth = defaults.Editor.CanvasWidth
	}
	if c.Editor.CanvasHeight == 0 {
		c.Editor.CanvasHeight = defaults.Editor.CanvasHeight
	}
	if c.Editor.BrushColor == "" {
		c.Editor.BrushColor = defaults.Editor.BrushColor
	}
	if c.Editor.BrushSize == 0 {
		c.Editor.BrushSize = defaults.Editor.BrushSize
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Export.Dir == "" {
		c.Export.Dir = defaults.Export.Dir
	}
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}
	if c.Export.Format == "md" {
		c.Export.Format = "markdown"
	}
	if c.Export.Theme == "" {
		c.Export.Theme = defaults.Export.Theme
	}
	if c.Export.PNGScale == 0 {
		c.Export.PNGScale = defaults.Export.PNGScale
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - WEBNOTE_DATA_DIR: overrides storage.dir
//   - WEBNOTE_BACKEND: overrides storage.backend
//   - WEBNOTE_AUTOSAVE: "1"/"true" or "0"/"false"
//   - WEBNOTE_EXPORT_DIR: overrides export.dir
//   - WEBNOTE_THEME: overrides ui.theme
//   - WEBNOTE_LOG_LEVEL: overrides log.level
//   - WEBNOTE_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("WEBNOTE_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if backend := os.Getenv("WEBNOTE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if autosave := os.Getenv("WEBNOTE_AUTOSAVE"); autosave != "" {
		c.Editor.AutoSave = parseBool(autosave)
	}
	if dir := os.Getenv("WEBNOTE_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
	if theme := os.Getenv("WEBNOTE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("WEBNOTE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if file := os.Getenv("WEBNOTE_LOG_FILE"); file != "" {
		c.Log.File = file
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "storage.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "storage.backend").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("cannot set section: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("toml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, prefix+name+".", keys)
			continue
		}
		*keys = append(*keys, prefix+name)
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return err.Error()
	}
	return sb.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if cfg == nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if cfg == nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return err
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
