// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogToFile_Disabled(t *testing.T) {
	t.Setenv(envDebugLog, "")
	path := filepath.Join(os.TempDir(), "propdash_debug.log")
	before, _ := os.Stat(path)

	LogToFile("ignored\n")

	after, _ := os.Stat(path)
	if before != nil && after != nil {
		assert.Equal(t, before.Size(), after.Size())
	}
}

func TestLogToFilef_WritesToNamedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	t.Setenv(envDebugLog, path)

	LogToFilef("refresh took %dms\n", 42)
	Logger().Info("transition applied", "count", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "refresh took 42ms")
	assert.Contains(t, string(data), "transition applied")
	assert.Contains(t, string(data), "count=2")
}

func TestLogPath_DefaultsToTempDir(t *testing.T) {
	t.Setenv(envDebugLog, "1")
	assert.Equal(t, filepath.Join(os.TempDir(), "propdash_debug.log"), LogPath())
}
