// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command propdash manages property listings from the terminal.
package main

import (
	"github.com/propdash/propdash-cli/internal/commands"
)

func main() {
	commands.Execute()
}
