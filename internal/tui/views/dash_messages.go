// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/domain"
)

// refreshDoneMsg is sent when a foreground refresh finishes
type refreshDoneMsg struct {
	err error
}

// transitionDoneMsg is sent when a bulk or row transition returns
type transitionDoneMsg struct {
	kind   domain.ActionKind
	result *dashboard.Result
	err    error
}

// messageClearMsg is sent when a status message expires
type messageClearMsg struct{}
