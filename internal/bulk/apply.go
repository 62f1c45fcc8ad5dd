// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package bulk

import (
	"context"
	"fmt"

	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
)

// Transitioner is the part of dashboard.Controller a plan needs
type Transitioner interface {
	Lookup(ids []string) (found []listing.ViewModel, missing []string)
	ApplyActivityTransition(ctx context.Context, ids []string, direction domain.Direction) (*dashboard.Result, error)
	ApplyReviewsTransition(ctx context.Context, targetIDs []string, direction domain.Direction) (*dashboard.Result, error)
}

type StepStatus string

const (
	StepApplied StepStatus = "applied"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
	StepNotRun  StepStatus = "not_run"
)

// StepResult reports what happened to one action
type StepResult struct {
	Action  Action
	Status  StepStatus
	Result  *dashboard.Result
	Missing []string
	Err     error
}

// Report is the outcome of applying a plan
type Report struct {
	Steps []StepResult
}

func (r *Report) Count(status StepStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any step failed
func (r *Report) Failed() bool {
	return r.Count(StepFailed) > 0
}

type ApplyOptions struct {
	// ContinueOnError keeps going after a failed step
	ContinueOnError bool
	// OnStep is called after each step
	OnStep func(index int, step StepResult)
}

// Apply runs the plan's actions in order. Ids unknown to the working set are
// dropped and reported as Missing. Reviews actions only target listings whose
// review state would change; a step left with nothing to do is skipped.
func Apply(ctx context.Context, t Transitioner, plan *Plan, opts ApplyOptions) *Report {
	report := &Report{Steps: make([]StepResult, 0, len(plan.Actions))}
	stopped := false

	for i, action := range plan.Actions {
		if stopped || ctx.Err() != nil {
			report.Steps = append(report.Steps, StepResult{Action: action, Status: StepNotRun})
			continue
		}

		step := applyOne(ctx, t, action)
		report.Steps = append(report.Steps, step)
		if opts.OnStep != nil {
			opts.OnStep(i, step)
		}
		if step.Status == StepFailed && !opts.ContinueOnError {
			stopped = true
		}
	}
	return report
}

func applyOne(ctx context.Context, t Transitioner, action Action) StepResult {
	step := StepResult{Action: action}

	found, missing := t.Lookup(action.IDs)
	step.Missing = missing

	var (
		result *dashboard.Result
		err    error
	)
	switch action.Kind {
	case domain.KindActivity:
		result, err = t.ApplyActivityTransition(ctx, idsOf(found), action.Direction)
	case domain.KindReviews:
		result, err = t.ApplyReviewsTransition(ctx, listing.ReviewTargets(found, action.Direction), action.Direction)
	default:
		err = fmt.Errorf("unknown kind %q", action.Kind)
	}

	switch {
	case err == nil:
		step.Status, step.Result = StepApplied, result
	case errors.IsEmptySelection(err):
		step.Status = StepSkipped
	default:
		step.Status, step.Err = StepFailed, err
	}
	return step
}

func idsOf(vms []listing.ViewModel) []string {
	out := make([]string, 0, len(vms))
	for _, vm := range vms {
		out = append(out, vm.ID)
	}
	return out
}
