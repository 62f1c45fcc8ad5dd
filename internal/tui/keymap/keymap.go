// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// DashboardKeyMap holds the dashboard bindings. It implements help.KeyMap.
type DashboardKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Top            key.Binding
	Bottom         key.Binding
	SwitchTab      key.Binding
	Search         key.Binding
	ExpiryFilter   key.Binding
	ReviewsOn      key.Binding
	ReviewsOff     key.Binding
	SelectionMode  key.Binding
	ToggleSelected key.Binding
	SelectAll      key.Binding
	BulkActivity   key.Binding
	BulkReviews    key.Binding
	Yank           key.Binding
	RowMenu        key.Binding
	Refresh        key.Binding
	Help           key.Binding
	Back           key.Binding
	Quit           key.Binding
}

func DefaultDashboardKeyMap() DashboardKeyMap {
	return DashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "active/inactive"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ExpiryFilter: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expiring license"),
		),
		ReviewsOn: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reviews on"),
		),
		ReviewsOff: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "reviews off"),
		),
		SelectionMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "selection mode"),
		),
		ToggleSelected: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		BulkActivity: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle status"),
		),
		BulkReviews: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle reviews"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy ids"),
		),
		RowMenu: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "row actions"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SetBusy disables the controls of a family while its update is in flight
func (k *DashboardKeyMap) SetBusy(status, reviews bool) {
	k.BulkActivity.SetEnabled(!status)
	k.BulkReviews.SetEnabled(!reviews)
}

func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchTab, k.SelectionMode, k.BulkActivity, k.BulkReviews, k.Search, k.Help, k.Quit}
}

func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.SwitchTab},
		{k.Search, k.ExpiryFilter, k.ReviewsOn, k.ReviewsOff, k.Refresh},
		{k.SelectionMode, k.ToggleSelected, k.SelectAll, k.Yank, k.RowMenu},
		{k.BulkActivity, k.BulkReviews, k.Back, k.Help, k.Quit},
	}
}

// OverlayKeyMap holds the bindings of the per-row action menu
type OverlayKeyMap struct {
	Activity key.Binding
	Reviews  key.Binding
	Open     key.Binding
	Copy     key.Binding
	Close    key.Binding
}

func DefaultOverlayKeyMap() OverlayKeyMap {
	return OverlayKeyMap{
		Activity: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle status")),
		Reviews:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "toggle reviews")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy id")),
		Close:    key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "close")),
	}
}

func (k OverlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activity, k.Reviews, k.Open, k.Copy, k.Close}
}

func (k OverlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
