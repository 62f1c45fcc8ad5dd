// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/tui/components"
	"github.com/propdash/propdash-cli/internal/utils"
)

// yankIDs copies the selected ids, or the id under the cursor when nothing is selected
func (d *DashboardView) yankIDs() tea.Cmd {
	var ids []string
	for _, vm := range d.ctrl.SelectedVisible() {
		ids = append(ids, vm.ID)
	}
	if len(ids) == 0 {
		if id := d.table.CurrentID(); id != "" {
			ids = []string{id}
		}
	}
	if len(ids) == 0 {
		return d.notify("Nothing to copy", domain.SeverityInfo)
	}
	return d.copy(strings.Join(ids, "\n"), len(ids))
}

func (d *DashboardView) copy(text string, n int) tea.Cmd {
	if err := d.copyText(text); err != nil {
		d.logger.Debug("clipboard write failed", "error", err)
		return d.notify("Failed to copy to clipboard", domain.SeverityError)
	}
	if n == 1 {
		return d.notify(fmt.Sprintf("Copied %q", utils.TruncateWithEllipsis(text, 40)), domain.SeveritySuccess)
	}
	return d.notify(fmt.Sprintf("Copied %d ids", n), domain.SeveritySuccess)
}

// notify shows a message and schedules a redraw for when it expires
func (d *DashboardView) notify(message string, severity domain.Severity) tea.Cmd {
	d.status.Notify(message, severity)
	return startMessageClearTimer(components.DefaultMessageDuration)
}

func startMessageClearTimer(duration time.Duration) tea.Cmd {
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return messageClearMsg{}
	})
}
