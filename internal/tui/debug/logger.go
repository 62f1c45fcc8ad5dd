// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package debug writes TUI diagnostics to a file, since stdout belongs to the terminal UI.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const envDebugLog = "PROPDASH_DEBUG_LOG"

func enabled() bool {
	v := os.Getenv(envDebugLog)
	return v != "" && v != "0" && v != "false"
}

// LogPath returns the debug log path. PROPDASH_DEBUG_LOG may name the file
// directly; otherwise it goes to the temp directory.
func LogPath() string {
	v := os.Getenv(envDebugLog)
	if v != "" && (filepath.IsAbs(v) || filepath.Dir(v) != ".") {
		return v
	}
	return filepath.Join(os.TempDir(), "propdash_debug.log")
}

// LogToFile appends message to the debug log when PROPDASH_DEBUG_LOG is set
func LogToFile(message string) {
	if !enabled() {
		return
	}
	if f, err := os.OpenFile(LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
		defer func() { _ = f.Close() }()
		_, _ = f.WriteString(message)
	}
}

// LogToFilef prefixes the message with a millisecond timestamp
func LogToFilef(format string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	LogToFile(fmt.Sprintf("[%s] %s", timestamp, fmt.Sprintf(format, args...)))
}

type fileWriter struct{}

func (fileWriter) Write(p []byte) (int, error) {
	LogToFile(string(p))
	return len(p), nil
}

// Logger returns a slog.Logger that writes to the debug log, or discards
// everything when debug logging is off.
func Logger() *slog.Logger {
	if !enabled() {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(io.Writer(fileWriter{}), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
