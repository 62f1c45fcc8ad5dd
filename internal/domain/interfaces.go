// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

import (
	"context"
	"encoding/json"

	"github.com/propdash/propdash-cli/internal/models"
)

// ListingGateway is the backend the orchestrator talks to.
// Implementations never return bare errors; every outcome is an Envelope.
type ListingGateway interface {
	FetchListings(ctx context.Context) Envelope[[]models.RawListing]
	UpdateActivityStatus(ctx context.Context, ids []string, direction Direction) Envelope[json.RawMessage]
	UpdateReviewStatus(ctx context.Context, ids []string, enable bool) Envelope[json.RawMessage]
}

// Notifier displays a message to the user. Fire-and-forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string, severity Severity)

func (f NotifierFunc) Notify(message string, severity Severity) {
	f(message, severity)
}

// Invalidator is implemented by gateways that cache reads
type Invalidator interface {
	Invalidate()
}
