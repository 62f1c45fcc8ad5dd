// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tui runs the interactive listings dashboard.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/tui/debug"
	"github.com/propdash/propdash-cli/internal/tui/messages"
	"github.com/propdash/propdash-cli/internal/tui/views"
)

// App is the root model. It owns the window size and hands everything
// else to the dashboard view.
type App struct {
	dashboard *views.DashboardView
	width     int
	height    int
}

// NewApp builds the dashboard over ctrl. bridge must be the notifier ctrl
// was created with, or notifications never reach the screen.
func NewApp(ctrl *dashboard.Controller, bridge *messages.Bridge, opts ...views.Option) *App {
	return &App{dashboard: views.NewDashboardView(ctrl, bridge, opts...)}
}

func (a *App) Init() tea.Cmd {
	debug.LogToFile("app: starting dashboard\n")
	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		if size.Width == a.width && size.Height == a.height {
			return a, nil
		}
		debug.LogToFilef("app: window resized to %dx%d\n", size.Width, size.Height)
		a.width, a.height = size.Width, size.Height
	}

	_, cmd := a.dashboard.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.dashboard.View()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
