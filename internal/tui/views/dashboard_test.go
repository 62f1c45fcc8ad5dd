// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/mock"
	"github.com/propdash/propdash-cli/internal/models"
	"github.com/propdash/propdash-cli/internal/tui/messages"
)

func rawListing(id, title string, active, reviews bool) models.RawListing {
	return models.RawListing{
		MongoID:       models.NewFlexibleID(id),
		Title:         title,
		City:          "Lisbon",
		Country:       "Portugal",
		IsActive:      active,
		ReviewEnabled: reviews,
		License:       true,
	}
}

type testView struct {
	*DashboardView
	gateway *mock.Gateway
	copied  []string
	opened  []string
}

func newTestView(t *testing.T) *testView {
	t.Helper()

	gw := mock.NewGateway([]models.RawListing{
		rawListing("a", "Alpha Loft", true, false),
		rawListing("b", "Bravo Villa", true, true),
		rawListing("c", "Charlie Studio", false, false),
	}, 0)
	bridge := messages.NewBridge()
	ctrl := dashboard.New(gw, bridge, dashboard.WithScheduler(dashboard.SyncScheduler))
	require.NoError(t, ctrl.Refresh(context.Background()))

	tv := &testView{gateway: gw}
	tv.DashboardView = NewDashboardView(ctrl, bridge, WithURLs(config.GetURLs("https://api.propdash.io")))
	tv.copyText = func(s string) error {
		tv.copied = append(tv.copied, s)
		return nil
	}
	tv.openURL = func(u string) error {
		tv.opened = append(tv.opened, u)
		return nil
	}
	tv.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return tv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (tv *testView) press(msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = tv.Update(m)
	}
	return cmd
}

// run executes a transition command and feeds its result back, as the
// program loop would
func (tv *testView) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, isDone := msg.(transitionDoneMsg)
	require.True(t, isDone, "expected transitionDoneMsg, got %T", msg)
	tv.Update(msg)
	for _, pending := range tv.bridge.Pending() {
		tv.Update(pending)
	}
}

func activeByID(gw *mock.Gateway) map[string]bool {
	out := map[string]bool{}
	for _, l := range gw.Listings() {
		out[l.GetIDString()] = l.IsActive
	}
	return out
}

func TestDashboardView_InitialRowsFollowActiveTab(t *testing.T) {
	tv := newTestView(t)

	assert.Equal(t, "a", tv.table.CurrentID())
	assert.Equal(t, "1/2", tv.table.Position())
	assert.Contains(t, tv.View(), "Alpha Loft")
	assert.NotContains(t, tv.View(), "Charlie Studio")
}

func TestDashboardView_SwitchTab(t *testing.T) {
	tv := newTestView(t)

	tv.press(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, listing.TabInactive, tv.ctrl.Tab())
	assert.Equal(t, "c", tv.table.CurrentID())
}

func TestDashboardView_SpaceEntersSelectionModeAndToggles(t *testing.T) {
	tv := newTestView(t)

	tv.press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	st := tv.ctrl.Snapshot()
	assert.True(t, st.Selection.IsSelectionMode)
	assert.True(t, st.Selection.Contains("a"))
	assert.Equal(t, "b", tv.table.CurrentID(), "cursor advances after selecting")
}

func TestDashboardView_BulkActivityDeactivatesSelection(t *testing.T) {
	tv := newTestView(t)

	tv.press(runes("a"))
	cmd := tv.press(runes("s"))
	assert.True(t, tv.pendingStatus)
	assert.False(t, tv.keys.BulkActivity.Enabled(), "status key is disabled while the update is pending")

	tv.run(t, cmd)

	assert.False(t, tv.pendingStatus)
	assert.True(t, tv.keys.BulkActivity.Enabled())
	assert.Equal(t, map[string]bool{"a": false, "b": false, "c": false}, activeByID(tv.gateway))
	assert.Equal(t, listing.TabInactive, tv.ctrl.Tab(), "tab follows the new state")
	assert.Contains(t, tv.status.Message(), "Deactivated 2 listings")
}

func TestDashboardView_BulkActivityWithoutSelection(t *testing.T) {
	tv := newTestView(t)

	tv.run(t, tv.press(runes("s")))

	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": false}, activeByID(tv.gateway))
	assert.Contains(t, tv.status.Message(), "Select at least one listing first")
}

func TestDashboardView_BulkReviewsEnableWins(t *testing.T) {
	tv := newTestView(t)

	tv.press(runes("a"))
	tv.run(t, tv.press(runes("w")))

	for _, l := range tv.gateway.Listings() {
		if l.GetIDString() != "c" {
			assert.True(t, l.ReviewEnabled, l.GetIDString())
		}
	}
	assert.Equal(t, listing.ReviewFilterEnabled, tv.ctrl.Snapshot().Filters.Reviews)
	assert.Contains(t, tv.status.Message(), "Enabled reviews for 1 listing")
}

func TestDashboardView_OverlayActions(t *testing.T) {
	tv := newTestView(t)

	tv.press(tea.KeyMsg{Type: tea.KeyEnter})
	id, open := tv.ctrl.Snapshot().Overlay.Active()
	require.True(t, open)
	assert.Equal(t, "a", id)
	assert.Contains(t, tv.View(), "Open in browser")

	tv.press(runes("o"))
	assert.Equal(t, []string{"https://app.propdash.io/dashboard/listings/a"}, tv.opened)
	_, open = tv.ctrl.Snapshot().Overlay.Active()
	assert.False(t, open)

	tv.press(tea.KeyMsg{Type: tea.KeyEnter}, runes("c"))
	assert.Equal(t, []string{"a"}, tv.copied)

	tv.press(tea.KeyMsg{Type: tea.KeyEnter})
	tv.run(t, tv.press(runes("w")))
	for _, l := range tv.gateway.Listings() {
		if l.GetIDString() == "a" {
			assert.True(t, l.ReviewEnabled)
		}
	}
}

func TestDashboardView_OverlayToggleStatus(t *testing.T) {
	tv := newTestView(t)

	tv.press(tea.KeyMsg{Type: tea.KeyEnter})
	tv.run(t, tv.press(runes("s")))

	assert.False(t, activeByID(tv.gateway)["a"])
	assert.True(t, activeByID(tv.gateway)["b"])
}

func TestDashboardView_EscClosesOverlay(t *testing.T) {
	tv := newTestView(t)

	tv.press(tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})

	_, open := tv.ctrl.Snapshot().Overlay.Active()
	assert.False(t, open)
}

func TestDashboardView_Search(t *testing.T) {
	tv := newTestView(t)

	tv.press(runes("/"))
	require.True(t, tv.searching)
	tv.press(runes("b"), runes("r"), runes("a"))

	assert.Equal(t, "bra", tv.ctrl.Snapshot().Search)
	assert.Equal(t, "b", tv.table.CurrentID())
	assert.Equal(t, "1/1", tv.table.Position())

	tv.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, tv.searching)
	assert.Equal(t, "bra", tv.ctrl.Snapshot().Search, "enter keeps the term")

	tv.press(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, tv.ctrl.Snapshot().Search, "esc clears a committed search")
	assert.Equal(t, "1/2", tv.table.Position())
}

func TestDashboardView_Filters(t *testing.T) {
	tv := newTestView(t)

	tv.press(runes("R"))
	assert.Equal(t, listing.ReviewFilterEnabled, tv.ctrl.Snapshot().Filters.Reviews)
	assert.Equal(t, "b", tv.table.CurrentID())

	tv.press(runes("D"))
	assert.Equal(t, listing.ReviewFilterDisabled, tv.ctrl.Snapshot().Filters.Reviews)
	assert.Equal(t, "a", tv.table.CurrentID())

	tv.press(runes("e"))
	assert.True(t, tv.ctrl.Snapshot().Filters.ExpiringLicense)
}

func TestDashboardView_YankSelection(t *testing.T) {
	tv := newTestView(t)

	tv.press(runes("y"))
	assert.Equal(t, []string{"a"}, tv.copied, "cursor row without a selection")

	tv.press(runes("a"), runes("y"))
	assert.Equal(t, "a\nb", tv.copied[1])
	assert.Contains(t, tv.status.Message(), "Copied 2 ids")
}

func TestDashboardView_YankFailure(t *testing.T) {
	tv := newTestView(t)
	tv.copyText = func(string) error { return errors.New("no display") }

	tv.press(runes("y"))

	assert.Contains(t, tv.status.Message(), "Failed to copy")
}

func TestDashboardView_NotificationsRelistenToBridge(t *testing.T) {
	tv := newTestView(t)

	_, cmd := tv.Update(messages.NotificationMsg{Message: "hello", Severity: domain.SeverityInfo})

	assert.NotNil(t, cmd)
	assert.Contains(t, tv.status.Message(), "hello")
}

func TestDashboardView_RefreshFailureIsShown(t *testing.T) {
	tv := newTestView(t)

	tv.Update(refreshDoneMsg{err: errors.New("connection refused")})

	assert.False(t, tv.loading)
	assert.NotEmpty(t, tv.status.Message())
}

func TestDashboardView_QuitAndHelp(t *testing.T) {
	tv := newTestView(t)

	tv.press(runes("?"))
	assert.True(t, tv.showHelp)

	cmd := tv.press(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
