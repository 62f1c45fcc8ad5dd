// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package commands

import "syscall"

// getStdinFD returns the file descriptor for stdin on Unix systems
func getStdinFD() int {
	return int(syscall.Stdin)
}
