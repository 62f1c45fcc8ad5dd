// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package messages carries events from the dashboard controller into the Bubble Tea loop.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/propdash/propdash-cli/internal/domain"
)

// NotificationMsg is a controller notification
type NotificationMsg struct {
	Message  string
	Severity domain.Severity
}

// StateChangedMsg means the controller's working set changed outside a
// user action, e.g. after a background refresh
type StateChangedMsg struct{}

const notificationBuffer = 32

// Bridge is a domain.Notifier that queues notifications for the TUI.
// The controller may call it from any goroutine.
type Bridge struct {
	notifications chan NotificationMsg
	changes       chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		notifications: make(chan NotificationMsg, notificationBuffer),
		changes:       make(chan struct{}, 1),
	}
}

// Notify never blocks; when the buffer is full the notification is dropped
func (b *Bridge) Notify(message string, severity domain.Severity) {
	select {
	case b.notifications <- NotificationMsg{Message: message, Severity: severity}:
	default:
	}
}

// Changed signals a state change. Signals coalesce until the TUI reads one.
func (b *Bridge) Changed() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// Listen waits for the next event. Re-issue it after each message.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-b.notifications:
			return n
		case <-b.changes:
			return StateChangedMsg{}
		}
	}
}

// Pending drains queued events without waiting
func (b *Bridge) Pending() []tea.Msg {
	var out []tea.Msg
	for {
		select {
		case n := <-b.notifications:
			out = append(out, n)
		case <-b.changes:
			out = append(out, StateChangedMsg{})
		default:
			return out
		}
	}
}
