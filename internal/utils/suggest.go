// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package utils

import (
	"github.com/sahilm/fuzzy"
)

// Suggest returns up to limit candidates that fuzzily match input, best first
func Suggest(input string, candidates []string, limit int) []string {
	if input == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}

	matches := fuzzy.Find(input, candidates)
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if m.Str == input {
			continue
		}
		out = append(out, m.Str)
		if len(out) == limit {
			break
		}
	}
	return out
}
