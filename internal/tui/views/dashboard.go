// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views holds the Bubble Tea models of the listings dashboard.
package views

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/tui/components"
	"github.com/propdash/propdash-cli/internal/tui/keymap"
	"github.com/propdash/propdash-cli/internal/tui/messages"
	"github.com/propdash/propdash-cli/internal/utils"
)

const (
	defaultRequestTimeout = 30 * time.Second
	// header, tab bar, filter bar, blank line and status line
	chromeHeight = 5
)

// DashboardView renders the controller's working set and turns key
// presses into controller calls. Transitions run as commands so the
// event loop never waits on the network.
type DashboardView struct {
	ctrl   *dashboard.Controller
	bridge *messages.Bridge
	urls   *config.URLs
	logger *slog.Logger

	keys        keymap.DashboardKeyMap
	overlayKeys keymap.OverlayKeyMap
	help        help.Model
	search      textinput.Model
	table       *components.ListingTable
	status      *components.StatusLine

	width     int
	height    int
	searching bool
	showHelp  bool
	loading   bool
	timeout   time.Duration

	// set between dispatching a transition and its done message
	pendingStatus  bool
	pendingReviews bool

	copyText func(string) error
	openURL  func(string) error
}

// Option configures a DashboardView
type Option func(*DashboardView)

func WithLogger(l *slog.Logger) Option {
	return func(d *DashboardView) { d.logger = l }
}

func WithURLs(u *config.URLs) Option {
	return func(d *DashboardView) { d.urls = u }
}

func WithRequestTimeout(t time.Duration) Option {
	return func(d *DashboardView) { d.timeout = t }
}

func NewDashboardView(ctrl *dashboard.Controller, bridge *messages.Bridge, opts ...Option) *DashboardView {
	search := textinput.New()
	search.Placeholder = "title, price or location"
	search.Prompt = "/ "
	search.CharLimit = 80

	d := &DashboardView{
		ctrl:        ctrl,
		bridge:      bridge,
		urls:        config.GetURLs(""),
		logger:      slog.New(slog.DiscardHandler),
		keys:        keymap.DefaultDashboardKeyMap(),
		overlayKeys: keymap.DefaultOverlayKeyMap(),
		help:        help.New(),
		search:      search,
		table:       components.NewListingTable(),
		status:      components.NewStatusLine(),
		timeout:     defaultRequestTimeout,
		copyText:    utils.WriteToClipboard,
		openURL:     utils.OpenURL,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.sync()
	return d
}

func (d *DashboardView) Init() tea.Cmd {
	d.loading = true
	return tea.Batch(d.refreshCmd(), d.status.SpinnerTick(), d.bridge.Listen())
}

// sync pulls the controller's state into the table and key bindings
func (d *DashboardView) sync() {
	st := d.ctrl.Snapshot()
	d.table.SetRows(st.Visible, st.Selection)
	d.keys.SetBusy(st.UpdatingStatus || d.pendingStatus, st.UpdatingReviews || d.pendingReviews)
	d.status.SetLoading(d.loading || d.pendingStatus || d.pendingReviews)
}

func (d *DashboardView) refreshCmd() tea.Cmd {
	ctrl, timeout := d.ctrl, d.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return refreshDoneMsg{err: ctrl.Refresh(ctx)}
	}
}

type transitionFunc func(ctx context.Context) (*dashboard.Result, error)

// transitionCmd runs fn off the event loop. The controller reports the
// outcome through the bridge, so the done message only triggers a resync.
func (d *DashboardView) transitionCmd(kind domain.ActionKind, fn transitionFunc) tea.Cmd {
	switch kind {
	case domain.KindActivity:
		d.pendingStatus = true
	case domain.KindReviews:
		d.pendingReviews = true
	}
	d.sync()

	timeout := d.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := fn(ctx)
		return transitionDoneMsg{kind: kind, result: res, err: err}
	}
}
