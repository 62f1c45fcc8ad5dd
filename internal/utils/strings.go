// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package utils

import (
	"github.com/charmbracelet/lipgloss"
)

// TruncateWithEllipsis truncates s to fit within maxWidth terminal cells
func TruncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	for i := len(runes); i > 0; i-- {
		truncated := string(runes[:i]) + "..."
		if lipgloss.Width(truncated) <= maxWidth {
			return truncated
		}
	}
	return "..."
}

// PadRight truncates or pads s to exactly width terminal cells
func PadRight(s string, width int) string {
	s = TruncateWithEllipsis(s, width)
	if w := lipgloss.Width(s); w < width {
		return s + spaces(width-w)
	}
	return s
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
