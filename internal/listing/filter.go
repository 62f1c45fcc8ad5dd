// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package listing

import (
	"fmt"
	"strings"
)

// Tab is the active/inactive partition currently on screen
type Tab string

const (
	TabActive   Tab = "active"
	TabInactive Tab = "inactive"
)

// ParseTab accepts "active" and "inactive"
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabActive, "":
		return TabActive, nil
	case TabInactive:
		return TabInactive, nil
	default:
		return TabActive, fmt.Errorf("unknown tab %q (want active or inactive)", s)
	}
}

// TabFor returns the tab a listing with the given activity state belongs to
func TabFor(isActive bool) Tab {
	if isActive {
		return TabActive
	}
	return TabInactive
}

// ReviewFilter narrows by review status. The enum makes the
// enabled and disabled filters mutually exclusive.
type ReviewFilter int

const (
	ReviewFilterNone ReviewFilter = iota
	ReviewFilterEnabled
	ReviewFilterDisabled
)

func (f ReviewFilter) String() string {
	switch f {
	case ReviewFilterEnabled:
		return "enabled"
	case ReviewFilterDisabled:
		return "disabled"
	default:
		return "none"
	}
}

// ParseReviewFilter accepts "", "none", "enabled" and "disabled"
func ParseReviewFilter(s string) (ReviewFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "all":
		return ReviewFilterNone, nil
	case "enabled", "enable", "on":
		return ReviewFilterEnabled, nil
	case "disabled", "disable", "off":
		return ReviewFilterDisabled, nil
	default:
		return ReviewFilterNone, fmt.Errorf("unknown review filter %q (want enabled or disabled)", s)
	}
}

// Filters are the toggles applied on top of the tab and search term
type Filters struct {
	ExpiringLicense bool
	Reviews         ReviewFilter
}

// ToggleReviewFilter activates f, or deactivates it if it is already active.
// Activating one review filter replaces the other.
func (fs Filters) ToggleReviewFilter(f ReviewFilter) Filters {
	if fs.Reviews == f {
		fs.Reviews = ReviewFilterNone
	} else {
		fs.Reviews = f
	}
	return fs
}

// Visible returns the listings that pass every predicate, in input order.
func Visible(listings []ViewModel, tab Tab, filters Filters, search string) []ViewModel {
	term := strings.ToLower(search)
	out := make([]ViewModel, 0, len(listings))
	for _, vm := range listings {
		if vm.IsActive != (tab == TabActive) {
			continue
		}
		if filters.ExpiringLicense && !vm.License {
			continue
		}
		if !matchesReviewFilter(vm, filters.Reviews) {
			continue
		}
		if term != "" && !matchesSearch(vm, term) {
			continue
		}
		out = append(out, vm)
	}
	return out
}

func matchesReviewFilter(vm ViewModel, f ReviewFilter) bool {
	switch f {
	case ReviewFilterEnabled:
		return vm.ReviewEnabled
	case ReviewFilterDisabled:
		return !vm.ReviewEnabled
	default:
		return true
	}
}

// matchesSearch expects term already lower-cased
func matchesSearch(vm ViewModel, term string) bool {
	return strings.Contains(strings.ToLower(vm.Title), term) ||
		strings.Contains(strings.ToLower(vm.Price), term) ||
		strings.Contains(strings.ToLower(vm.Location), term)
}
