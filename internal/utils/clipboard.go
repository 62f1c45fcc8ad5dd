// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package utils

import (
	"errors"

	"github.com/atotto/clipboard"
)

var ErrClipboardUnavailable = errors.New("clipboard not available (install xclip, xsel or wl-clipboard)")

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// WriteToClipboard writes text to the system clipboard
func WriteToClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboardWrite(text)
}
