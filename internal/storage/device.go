// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/webnote/internal/util"
)

// DeviceFile holds the persistent device ID inside the data directory.
const DeviceFile = "device_id"

// DeviceID returns the device ID stored in dir, generating and persisting a
// new one on first use.
func DeviceID(dir string) (string, error) {
	path := filepath.Join(dir, DeviceFile)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := NewDeviceID()
	if err := util.AtomicWriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return "", fmt.Errorf("save device id: %w", err)
	}
	return id, nil
}

// NewDeviceID generates a fresh device ID.
func NewDeviceID() string {
	return "device_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
