// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/utils"
)

const maxSuggestions = 3

// pickListings lets the user choose listings interactively. Tests replace it.
var pickListings = func(candidates []listing.ViewModel, prompt string) ([]string, error) {
	if !term.IsTerminal(getStdinFD()) {
		return nil, fmt.Errorf("no listing ids given")
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no listings to choose from")
	}

	picked, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i].ID + "  " + candidates[i].Title
		},
		fuzzyfinder.WithPromptString(prompt),
		fuzzyfinder.WithHeader("tab to mark, enter to confirm"),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return describeListing(candidates[i])
		}),
	)
	if err != nil {
		if stderrors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, fmt.Errorf("selection cancelled")
		}
		return nil, err
	}

	ids := make([]string, 0, len(picked))
	for _, i := range picked {
		ids = append(ids, candidates[i].ID)
	}
	return ids, nil
}

func describeListing(vm listing.ViewModel) string {
	status := "inactive"
	if vm.IsActive {
		status = "active"
	}
	return fmt.Sprintf("%s\n\n%s\n%s · %s\nRating: %.1f\nStatus: %s\nReviews: %s\nLicense: %s",
		vm.Title, vm.Location, vm.Price, vm.Rooms, vm.Rating, status,
		onOff(vm.ReviewEnabled), onOff(vm.License))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// resolveListings maps ids onto the working set. Unknown ids are reported
// with close matches; it fails only when none of the ids are known.
func resolveListings(ctrl *dashboard.Controller, ids []string, out io.Writer) ([]listing.ViewModel, error) {
	found, missing := ctrl.Lookup(ids)
	if len(missing) > 0 {
		known := make([]string, 0)
		for _, vm := range ctrl.Snapshot().Listings {
			known = append(known, vm.ID)
		}
		for _, id := range missing {
			line := fmt.Sprintf("Unknown listing %q", id)
			if s := utils.Suggest(id, known, maxSuggestions); len(s) > 0 {
				line += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
			}
			fmt.Fprintln(out, line)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("none of the given listings exist")
	}
	return found, nil
}

func listingIDs(vms []listing.ViewModel) []string {
	ids := make([]string, 0, len(vms))
	for _, vm := range vms {
		ids = append(ids, vm.ID)
	}
	return ids
}

// dedupe keeps the first occurrence of each id
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
