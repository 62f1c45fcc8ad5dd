// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package commands

import "os"

// getStdinFD returns the file descriptor for stdin on Windows, where
// syscall.Stdin is a Handle rather than an int
func getStdinFD() int {
	return int(os.Stdin.Fd())
}
