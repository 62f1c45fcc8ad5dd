// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
)

const (
	activityFallback = "Failed to update listing status. Please try again."
	reviewsFallback  = "Failed to update review settings. Please try again."
)

// Result describes a transition the server accepted.
type Result struct {
	Kind      domain.ActionKind
	Direction domain.Direction
	IDs       []string
	// Patched counts ids that were present in the working set.
	Patched int
	Message string
}

// ApplyActivityTransition activates or inactivates ids.
//
// Local state changes only after the server confirms. On success every
// listing in ids is patched, the tab follows the new state, selection is
// cleared and a background refresh is scheduled. On failure nothing changes
// and selection mode stays on so the user can retry.
func (c *Controller) ApplyActivityTransition(ctx context.Context, ids []string, direction domain.Direction) (*Result, error) {
	if direction.Kind() != domain.KindActivity {
		return nil, &errors.ValidationError{Field: "direction", Value: direction, Message: "must be activate or inactivate"}
	}
	if len(ids) == 0 {
		err := &errors.EmptySelectionError{Action: "status update"}
		c.notifier.Notify("Select at least one listing first", domain.SeverityInfo)
		return nil, err
	}

	if !c.updatingStatus.CompareAndSwap(false, true) {
		err := &errors.ActionInProgressError{Family: "status"}
		c.notifier.Notify(err.Error(), domain.SeverityInfo)
		return nil, err
	}
	defer c.updatingStatus.Store(false)

	c.logger.Debug("applying activity transition", "direction", direction, "count", len(ids))

	env := c.gateway.UpdateActivityStatus(ctx, ids, direction)
	if err := updateOutcome(env, "status update"); err != nil {
		c.logger.Debug("activity transition failed", "error", err)
		c.notifier.Notify(failureMessage(err, activityFallback), domain.SeverityError)
		return nil, err
	}

	active := direction == domain.DirectionActivate

	c.mu.Lock()
	patched := c.patchLocked(ids, func(vm *listing.ViewModel) { vm.IsActive = active })
	c.tab = listing.TabFor(active)
	c.selection = listing.Selection{}
	c.overlay.Close()
	c.mu.Unlock()

	msg := activitySuccessMessage(direction, len(ids))
	c.notifier.Notify(msg, domain.SeveritySuccess)
	c.scheduleRefresh()

	return &Result{Kind: domain.KindActivity, Direction: direction, IDs: ids, Patched: patched, Message: msg}, nil
}

// ApplyReviewsTransition enables or disables reviews for targetIDs.
// targetIDs should already exclude listings in the target state.
//
// An empty response body fails with EmptyResponseError, distinct from a
// declared rejection. On success the review filter switches to match the
// direction and selection is cleared. On failure nothing changes.
func (c *Controller) ApplyReviewsTransition(ctx context.Context, targetIDs []string, direction domain.Direction) (*Result, error) {
	if direction.Kind() != domain.KindReviews {
		return nil, &errors.ValidationError{Field: "direction", Value: direction, Message: "must be enable or disable"}
	}
	if len(targetIDs) == 0 {
		err := &errors.EmptySelectionError{Action: "reviews update", Reason: "nothing to update"}
		c.notifier.Notify("Nothing to update", domain.SeverityInfo)
		return nil, err
	}

	if !c.updatingReviews.CompareAndSwap(false, true) {
		err := &errors.ActionInProgressError{Family: "reviews"}
		c.notifier.Notify(err.Error(), domain.SeverityInfo)
		return nil, err
	}
	defer c.updatingReviews.Store(false)

	enable := direction == domain.DirectionEnable
	c.logger.Debug("applying reviews transition", "enable", enable, "count", len(targetIDs))

	env := c.gateway.UpdateReviewStatus(ctx, targetIDs, enable)
	if err := updateOutcome(env, "reviews update"); err != nil {
		c.logger.Debug("reviews transition failed", "error", err)
		c.notifier.Notify(failureMessage(err, reviewsFallback), domain.SeverityError)
		return nil, err
	}

	c.mu.Lock()
	patched := c.patchLocked(targetIDs, func(vm *listing.ViewModel) { vm.ReviewEnabled = enable })
	if enable {
		c.filters.Reviews = listing.ReviewFilterEnabled
	} else {
		c.filters.Reviews = listing.ReviewFilterDisabled
	}
	c.selection = listing.Selection{}
	c.overlay.Close()
	c.mu.Unlock()

	msg := reviewsSuccessMessage(direction, len(targetIDs))
	c.notifier.Notify(msg, domain.SeveritySuccess)
	c.scheduleRefresh()

	return &Result{Kind: domain.KindReviews, Direction: direction, IDs: targetIDs, Patched: patched, Message: msg}, nil
}

// BulkToggleActivity resolves the action from the visible selection and applies it
func (c *Controller) BulkToggleActivity(ctx context.Context) (*Result, error) {
	c.mu.RLock()
	selected := c.selectedVisibleLocked()
	tab := c.tab
	c.mu.RUnlock()

	intent, err := listing.ResolveActivityAction(selected, tab)
	if err != nil {
		c.notifier.Notify("Select at least one listing first", domain.SeverityInfo)
		return nil, err
	}
	return c.ApplyActivityTransition(ctx, intent.TargetIDs, intent.Direction)
}

// BulkToggleReviews resolves the action from the visible selection and applies it
func (c *Controller) BulkToggleReviews(ctx context.Context) (*Result, error) {
	c.mu.RLock()
	selected := c.selectedVisibleLocked()
	c.mu.RUnlock()

	intent, err := listing.ResolveReviewsActionWithPolicy(selected, c.policy)
	if err != nil {
		if len(selected) == 0 {
			c.notifier.Notify("Select at least one listing first", domain.SeverityInfo)
		} else {
			c.notifier.Notify("Nothing to update", domain.SeverityInfo)
		}
		return nil, err
	}
	return c.ApplyReviewsTransition(ctx, intent.TargetIDs, intent.Direction)
}

func (c *Controller) patchLocked(ids []string, fn func(*listing.ViewModel)) int {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	next := make([]listing.ViewModel, len(c.listings))
	copy(next, c.listings)

	patched := 0
	for i := range next {
		if _, ok := want[next[i].ID]; ok {
			fn(&next[i])
			patched++
		}
	}
	c.listings = next
	c.generation++
	return patched
}

// updateOutcome classifies an update envelope. It succeeds only when the
// envelope does and its data does not declare "success": false.
func updateOutcome(env domain.Envelope[json.RawMessage], action string) error {
	if env.Cause != nil {
		return env.Cause
	}
	if !env.Success {
		return &errors.ServerRejectedError{Action: action, Message: env.Message}
	}
	if domain.DeclaresFailure(env.Data) {
		msg := dataMessage(env.Data)
		if msg == "" {
			msg = env.Message
		}
		return &errors.ServerRejectedError{Action: action, Message: msg}
	}
	return nil
}

func dataMessage(raw *json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if raw == nil || json.Unmarshal(*raw, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}

// failureMessage prefers the server's own words for a rejection
func failureMessage(err error, fallback string) string {
	var rejected *errors.ServerRejectedError
	if stderrors.As(err, &rejected) {
		if m := strings.TrimSpace(rejected.Message); m != "" {
			return m
		}
		return fallback
	}
	if errors.IsEmptyResponse(err) {
		return "The server returned an empty response. The change may not have been applied."
	}
	return errors.Message(err, fallback)
}

func activitySuccessMessage(direction domain.Direction, n int) string {
	verb := "Activated"
	if direction == domain.DirectionInactivate {
		verb = "Deactivated"
	}
	return fmt.Sprintf("%s %d %s", verb, n, plural(n, "listing"))
}

func reviewsSuccessMessage(direction domain.Direction, n int) string {
	verb := "Enabled"
	if direction == domain.DirectionDisable {
		verb = "Disabled"
	}
	return fmt.Sprintf("%s reviews for %d %s", verb, n, plural(n, "listing"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
