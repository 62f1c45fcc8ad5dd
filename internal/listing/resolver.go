// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package listing

import (
	"fmt"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
)

// Intent is a resolved bulk action: what to do and to which listings.
type Intent struct {
	Kind      domain.ActionKind
	Direction domain.Direction
	TargetIDs []string
}

// MixedReviewPolicy decides the direction when selected listings disagree on review status.
type MixedReviewPolicy string

const (
	// EnableWins enables reviews for the disabled members of a mixed selection.
	EnableWins MixedReviewPolicy = "enable-wins"
	// MajorityWins flips the minority to match the majority; ties enable.
	MajorityWins MixedReviewPolicy = "majority-wins"
)

// ParseMixedReviewPolicy returns EnableWins for empty or unknown input
func ParseMixedReviewPolicy(s string) (MixedReviewPolicy, error) {
	switch MixedReviewPolicy(s) {
	case "", EnableWins:
		return EnableWins, nil
	case MajorityWins:
		return MajorityWins, nil
	default:
		return EnableWins, fmt.Errorf("unknown mixed review policy %q (want %s or %s)", s, EnableWins, MajorityWins)
	}
}

// ResolveActivityAction picks the activity direction from the tab, not from item state:
// every listing in a tab shares the same activity state, so all selected ids are targets.
func ResolveActivityAction(selected []ViewModel, tab Tab) (Intent, error) {
	if len(selected) == 0 {
		return Intent{}, &errors.EmptySelectionError{Action: "status update"}
	}

	direction := domain.DirectionActivate
	if tab == TabActive {
		direction = domain.DirectionInactivate
	}

	ids := make([]string, 0, len(selected))
	for _, vm := range selected {
		ids = append(ids, vm.ID)
	}

	return Intent{Kind: domain.KindActivity, Direction: direction, TargetIDs: ids}, nil
}

// ResolveReviewsAction resolves with the EnableWins policy
func ResolveReviewsAction(selected []ViewModel) (Intent, error) {
	return ResolveReviewsActionWithPolicy(selected, EnableWins)
}

// ResolveReviewsActionWithPolicy picks enable or disable for the selection and
// keeps only the listings whose review status would actually change.
func ResolveReviewsActionWithPolicy(selected []ViewModel, policy MixedReviewPolicy) (Intent, error) {
	if len(selected) == 0 {
		return Intent{}, &errors.EmptySelectionError{Action: "reviews update"}
	}

	enabled := 0
	for _, vm := range selected {
		if vm.ReviewEnabled {
			enabled++
		}
	}
	disabled := len(selected) - enabled

	var direction domain.Direction
	switch {
	case disabled == 0:
		direction = domain.DirectionDisable
	case enabled == 0:
		direction = domain.DirectionEnable
	case policy == MajorityWins && enabled > disabled:
		direction = domain.DirectionEnable
	case policy == MajorityWins && disabled > enabled:
		direction = domain.DirectionDisable
	default:
		direction = domain.DirectionEnable
	}

	ids := ReviewTargets(selected, direction)
	if len(ids) == 0 {
		return Intent{}, &errors.EmptySelectionError{Action: "reviews update", Reason: "nothing to update"}
	}

	return Intent{Kind: domain.KindReviews, Direction: direction, TargetIDs: ids}, nil
}

// ReviewTargets returns the ids in selected whose review status differs from
// the state direction leads to.
func ReviewTargets(selected []ViewModel, direction domain.Direction) []string {
	want := direction == domain.DirectionEnable
	var ids []string
	for _, vm := range selected {
		if vm.ReviewEnabled != want {
			ids = append(ids, vm.ID)
		}
	}
	return ids
}
