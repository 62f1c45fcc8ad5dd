// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/domain"
	perrors "github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/tui/messages"
)

func (d *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width, d.height = msg.Width, msg.Height
		d.table.SetDimensions(msg.Width, max(msg.Height-chromeHeight, 3))
		d.status.SetWidth(msg.Width)
		d.help.Width = msg.Width
		return d, nil

	case spinner.TickMsg:
		return d, d.status.UpdateSpinner(msg)

	case messages.NotificationMsg:
		cmd := d.notify(msg.Message, msg.Severity)
		return d, tea.Batch(cmd, d.bridge.Listen())

	case messages.StateChangedMsg:
		d.sync()
		return d, d.bridge.Listen()

	case refreshDoneMsg:
		d.loading = false
		d.sync()
		if msg.err != nil {
			d.logger.Debug("refresh failed", "error", msg.err)
			return d, d.notify(perrors.FormatUserError(msg.err), domain.SeverityError)
		}
		return d, nil

	case transitionDoneMsg:
		switch msg.kind {
		case domain.KindActivity:
			d.pendingStatus = false
		case domain.KindReviews:
			d.pendingReviews = false
		}
		if msg.err != nil {
			d.logger.Debug("transition failed", "kind", msg.kind, "error", msg.err)
		}
		d.sync()
		return d, nil

	case messageClearMsg:
		return d, nil

	case tea.KeyMsg:
		return d, d.handleKey(msg)
	}

	return d, nil
}

func (d *DashboardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if d.searching {
		return d.handleSearchKey(msg)
	}
	if id, open := d.ctrl.Snapshot().Overlay.Active(); open {
		return d.handleOverlayKey(msg, id)
	}

	switch {
	case key.Matches(msg, d.keys.Quit):
		return tea.Quit
	case key.Matches(msg, d.keys.Help):
		d.showHelp = !d.showHelp
		d.help.ShowAll = d.showHelp
	case key.Matches(msg, d.keys.Up):
		d.table.MoveUp()
	case key.Matches(msg, d.keys.Down):
		d.table.MoveDown()
	case key.Matches(msg, d.keys.Top):
		d.table.GoToTop()
	case key.Matches(msg, d.keys.Bottom):
		d.table.GoToBottom()
	case key.Matches(msg, d.keys.SwitchTab):
		next := listing.TabInactive
		if d.ctrl.Tab() == listing.TabInactive {
			next = listing.TabActive
		}
		d.ctrl.SetTab(next)
		d.table.GoToTop()
		d.sync()
	case key.Matches(msg, d.keys.Search):
		d.searching = true
		d.search.Focus()
		return textinput.Blink
	case key.Matches(msg, d.keys.ExpiryFilter):
		d.ctrl.ToggleExpiryFilter()
		d.sync()
	case key.Matches(msg, d.keys.ReviewsOn):
		d.ctrl.ToggleReviewFilter(listing.ReviewFilterEnabled)
		d.sync()
	case key.Matches(msg, d.keys.ReviewsOff):
		d.ctrl.ToggleReviewFilter(listing.ReviewFilterDisabled)
		d.sync()
	case key.Matches(msg, d.keys.SelectionMode):
		if d.ctrl.Snapshot().Selection.IsSelectionMode {
			d.ctrl.ExitSelectionMode()
		} else {
			d.ctrl.EnterSelectionMode()
		}
		d.sync()
	case key.Matches(msg, d.keys.ToggleSelected):
		id := d.table.CurrentID()
		if id == "" {
			return nil
		}
		if !d.ctrl.Snapshot().Selection.IsSelectionMode {
			d.ctrl.EnterSelectionMode()
		}
		d.ctrl.Toggle(id)
		d.table.MoveDown()
		d.sync()
	case key.Matches(msg, d.keys.SelectAll):
		d.ctrl.EnterSelectionMode()
		d.ctrl.SelectAllVisible()
		d.sync()
	case key.Matches(msg, d.keys.BulkActivity):
		return d.transitionCmd(domain.KindActivity, d.ctrl.BulkToggleActivity)
	case key.Matches(msg, d.keys.BulkReviews):
		return d.transitionCmd(domain.KindReviews, d.ctrl.BulkToggleReviews)
	case key.Matches(msg, d.keys.Yank):
		return d.yankIDs()
	case key.Matches(msg, d.keys.RowMenu):
		if id := d.table.CurrentID(); id != "" {
			d.ctrl.ToggleOverlay(id)
		}
	case key.Matches(msg, d.keys.Refresh):
		d.loading = true
		d.sync()
		return d.refreshCmd()
	case key.Matches(msg, d.keys.Back):
		d.back()
	}
	return nil
}

// back clears the innermost thing on screen: search, then selection mode
func (d *DashboardView) back() {
	st := d.ctrl.Snapshot()
	switch {
	case st.Search != "":
		d.search.SetValue("")
		d.ctrl.SetSearch("")
	case st.Selection.IsSelectionMode:
		d.ctrl.ExitSelectionMode()
	}
	d.sync()
}

func (d *DashboardView) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		d.searching = false
		d.search.Blur()
		d.search.SetValue("")
		d.ctrl.SetSearch("")
		d.sync()
		return nil
	case tea.KeyEnter:
		d.searching = false
		d.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	d.search, cmd = d.search.Update(msg)
	d.ctrl.SetSearch(d.search.Value())
	d.table.GoToTop()
	d.sync()
	return cmd
}

func (d *DashboardView) handleOverlayKey(msg tea.KeyMsg, id string) tea.Cmd {
	found, _ := d.ctrl.Lookup([]string{id})
	if len(found) == 0 {
		d.ctrl.CloseOverlay()
		return nil
	}
	vm := found[0]

	switch {
	case key.Matches(msg, d.overlayKeys.Activity):
		if d.ctrl.IsUpdatingStatus() || d.pendingStatus {
			return nil
		}
		dir := domain.DirectionActivate
		if vm.IsActive {
			dir = domain.DirectionInactivate
		}
		return d.transitionCmd(domain.KindActivity, func(ctx context.Context) (*dashboard.Result, error) {
			return d.ctrl.ApplyActivityTransition(ctx, []string{id}, dir)
		})
	case key.Matches(msg, d.overlayKeys.Reviews):
		if d.ctrl.IsUpdatingReviews() || d.pendingReviews {
			return nil
		}
		dir := domain.DirectionEnable
		if vm.ReviewEnabled {
			dir = domain.DirectionDisable
		}
		targets := listing.ReviewTargets([]listing.ViewModel{vm}, dir)
		return d.transitionCmd(domain.KindReviews, func(ctx context.Context) (*dashboard.Result, error) {
			return d.ctrl.ApplyReviewsTransition(ctx, targets, dir)
		})
	case key.Matches(msg, d.overlayKeys.Open):
		d.ctrl.CloseOverlay()
		if err := d.openURL(d.urls.ListingURL(id)); err != nil {
			d.logger.Debug("failed to open browser", "error", err)
			return d.notify("Failed to open browser", domain.SeverityError)
		}
		return d.notify("Opened "+vm.Title+" in browser", domain.SeverityInfo)
	case key.Matches(msg, d.overlayKeys.Copy):
		d.ctrl.CloseOverlay()
		return d.copy(id, 1)
	case key.Matches(msg, d.overlayKeys.Close):
		d.ctrl.CloseOverlay()
	}
	return nil
}
