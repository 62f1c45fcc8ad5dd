// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package utils

import (
	"net/url"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURL returns the first http(s) URL in text
func ExtractURL(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if _, err := url.Parse(text); err == nil && (strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")) {
		return text
	}

	return strings.TrimSpace(urlPattern.FindString(text))
}

// browserCommand builds the command that opens a URL; swapped out in tests
var browserCommand = func(u string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		return exec.Command("xdg-open", u)
	}
}

// OpenURL opens the first URL in urlStr in the default browser.
// Text without a URL is ignored.
func OpenURL(urlStr string) error {
	cleanURL := ExtractURL(urlStr)
	if cleanURL == "" {
		return nil
	}

	cmd := browserCommand(cleanURL)
	// xdg-open prints GTK theme warnings
	cmd.Stderr = nil
	cmd.Stdout = nil
	return cmd.Run()
}
