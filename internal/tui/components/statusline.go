// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/tui/styles"
	"github.com/propdash/propdash-cli/internal/utils"
)

const DefaultMessageDuration = 4 * time.Second

// StatusLine is the single-line footer: left context, a help or notification
// middle, and right-aligned freshness with an optional spinner.
type StatusLine struct {
	width               int
	leftContent         string
	rightContent        string
	helpContent         string
	tempMessage         string
	tempMessageTime     time.Time
	tempMessageDuration time.Duration
	tempMessageColor    lipgloss.Color
	isLoading           bool
	loadingSpinner      spinner.Model
	now                 func() time.Time
}

func NewStatusLine() *StatusLine {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	return &StatusLine{loadingSpinner: s, now: time.Now}
}

func (s *StatusLine) SetWidth(width int) *StatusLine {
	s.width = width
	return s
}

func (s *StatusLine) SetLeft(content string) *StatusLine {
	s.leftContent = content
	return s
}

func (s *StatusLine) SetRight(content string) *StatusLine {
	s.rightContent = content
	return s
}

func (s *StatusLine) SetHelp(content string) *StatusLine {
	s.helpContent = content
	return s
}

func (s *StatusLine) SetLoading(loading bool) *StatusLine {
	s.isLoading = loading
	return s
}

// SpinnerTick starts the spinner animation
func (s *StatusLine) SpinnerTick() tea.Cmd {
	return s.loadingSpinner.Tick
}

// UpdateSpinner advances the spinner. The returned command keeps it ticking.
func (s *StatusLine) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	s.loadingSpinner, cmd = s.loadingSpinner.Update(msg)
	return cmd
}

// Notify shows message in place of the help text for a while
func (s *StatusLine) Notify(message string, severity domain.Severity) *StatusLine {
	s.tempMessage = styles.SeverityIcon(severity) + " " + message
	s.tempMessageTime = s.now()
	s.tempMessageDuration = DefaultMessageDuration
	s.tempMessageColor = styles.SeverityColor(severity)
	return s
}

func (s *StatusLine) HasActiveMessage() bool {
	if s.tempMessage == "" {
		return false
	}
	return s.now().Sub(s.tempMessageTime) < s.tempMessageDuration
}

// Message returns the active notification text, or ""
func (s *StatusLine) Message() string {
	if !s.HasActiveMessage() {
		return ""
	}
	return s.tempMessage
}

func (s *StatusLine) Render() string {
	if s.width <= 0 {
		return ""
	}

	rightContent := s.rightContent
	if s.isLoading {
		rightContent = strings.TrimSpace(s.loadingSpinner.View() + " " + rightContent)
	}

	maxPartWidth := s.width / 3
	leftContent := s.leftContent
	if lipgloss.Width(leftContent) > maxPartWidth {
		leftContent = utils.TruncateWithEllipsis(leftContent, maxPartWidth)
	}
	if lipgloss.Width(rightContent) > maxPartWidth {
		rightContent = utils.TruncateWithEllipsis(rightContent, maxPartWidth)
	}

	middle, middleStyle := s.helpContent, styles.HelpStyle
	if s.HasActiveMessage() {
		middle = s.tempMessage
		middleStyle = lipgloss.NewStyle().Foreground(s.tempMessageColor)
	}

	leftLen := lipgloss.Width(leftContent)
	rightLen := lipgloss.Width(rightContent)
	available := s.width - leftLen - rightLen - 4

	var statusContent string
	if middle != "" && available > 10 {
		if lipgloss.Width(middle) > available {
			middle = utils.TruncateWithEllipsis(middle, available)
		}
		padding := strings.Repeat(" ", available-lipgloss.Width(middle))
		statusContent = fmt.Sprintf("%s  %s%s  %s", leftContent, middleStyle.Render(middle), padding, rightContent)
	} else {
		padding := s.width - leftLen - rightLen
		if padding < 0 {
			padding = 0
		}
		statusContent = leftContent + strings.Repeat(" ", padding) + rightContent
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Width(s.width).
		MaxWidth(s.width).
		MaxHeight(1).
		Render(statusContent)
}
