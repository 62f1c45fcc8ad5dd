// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/propdash/propdash-cli/internal/domain"
)

var (
	BaseStyle = lipgloss.NewStyle()

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("63")).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 2)

	FilterOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	FilterOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	ProcessingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	MarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	TableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TableSelectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("63")).
				Padding(0, 1)
)

// SeverityColor is the status line color for a notification
func SeverityColor(severity domain.Severity) lipgloss.Color {
	switch severity {
	case domain.SeveritySuccess:
		return lipgloss.Color("46")
	case domain.SeverityError:
		return lipgloss.Color("196")
	default:
		return lipgloss.Color("33")
	}
}

// SeverityStyle renders a notification printed outside the TUI
func SeverityStyle(severity domain.Severity) lipgloss.Style {
	switch severity {
	case domain.SeveritySuccess:
		return SuccessStyle
	case domain.SeverityError:
		return ErrorStyle
	default:
		return InfoStyle
	}
}

func SeverityIcon(severity domain.Severity) string {
	switch severity {
	case domain.SeveritySuccess:
		return "✓"
	case domain.SeverityError:
		return "✗"
	default:
		return "•"
	}
}

// Check renders a boolean column
func Check(ok bool) string {
	if ok {
		return "✓"
	}
	return "·"
}
