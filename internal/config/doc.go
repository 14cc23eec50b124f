// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for webnote.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - EditorConfig: Auto-save timing, suggestion popup and canvas defaults
//   - StorageConfig: Backend selection (file or sqlite) and data directory
//   - ExportConfig: Default export format, theme and output directory
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (WEBNOTE_*), including .env files
//   - ~/.webnote/config.toml
//   - ~/.webnote/config.json
//   - Built-in defaults
//
// WEBNOTE_HOME moves the whole ~/.webnote directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dir, _ := cfg.StorageDir()
//	_ = cfg.Set("storage.backend", "sqlite")
package config
