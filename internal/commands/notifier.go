// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/tui/styles"
)

// cliNotifier prints controller notifications as styled lines
type cliNotifier struct {
	out io.Writer
}

func (n cliNotifier) Notify(message string, severity domain.Severity) {
	line := styles.SeverityIcon(severity) + " " + message
	fmt.Fprintln(n.out, styles.SeverityStyle(severity).Render(line))
}
