// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/models"
)

type countingGateway struct {
	fetches   int
	fetchEnv  domain.Envelope[[]models.RawListing]
	updateEnv domain.Envelope[json.RawMessage]
}

func (g *countingGateway) FetchListings(ctx context.Context) domain.Envelope[[]models.RawListing] {
	g.fetches++
	return g.fetchEnv
}

func (g *countingGateway) UpdateActivityStatus(ctx context.Context, ids []string, d domain.Direction) domain.Envelope[json.RawMessage] {
	return g.updateEnv
}

func (g *countingGateway) UpdateReviewStatus(ctx context.Context, ids []string, enable bool) domain.Envelope[json.RawMessage] {
	return g.updateEnv
}

func newCounting() *countingGateway {
	return &countingGateway{
		fetchEnv:  domain.Succeeded([]models.RawListing{{MongoID: models.NewFlexibleID("a")}}, ""),
		updateEnv: domain.Succeeded(json.RawMessage(`{"success": true}`), ""),
	}
}

func TestCachingGateway_ServesFromCache(t *testing.T) {
	next := newCounting()
	g := NewCachingGateway(next, time.Minute)

	first := g.FetchListings(context.Background())
	second := g.FetchListings(context.Background())

	assert.True(t, first.Success)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.fetches)
	assert.True(t, g.Cached())
}

func TestCachingGateway_Expires(t *testing.T) {
	next := newCounting()
	g := NewCachingGateway(next, 10*time.Millisecond)

	g.FetchListings(context.Background())
	time.Sleep(25 * time.Millisecond)
	g.FetchListings(context.Background())

	assert.Equal(t, 2, next.fetches)
}

func TestCachingGateway_FailuresAreNotCached(t *testing.T) {
	next := newCounting()
	next.fetchEnv = domain.Failure[[]models.RawListing](assert.AnError, "")
	g := NewCachingGateway(next, time.Minute)

	g.FetchListings(context.Background())
	g.FetchListings(context.Background())

	assert.Equal(t, 2, next.fetches)
}

func TestCachingGateway_InvalidatedBySuccessfulUpdate(t *testing.T) {
	tests := []struct {
		name        string
		updateEnv   domain.Envelope[json.RawMessage]
		invalidates bool
	}{
		{"success", domain.Succeeded(json.RawMessage(`{"success": true}`), ""), true},
		{"rejected", domain.Envelope[json.RawMessage]{Success: false}, false},
		{"data declares failure", domain.Succeeded(json.RawMessage(`{"success": false}`), ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := newCounting()
			next.updateEnv = tt.updateEnv
			g := NewCachingGateway(next, time.Minute)

			g.FetchListings(context.Background())
			require.True(t, g.Cached())

			g.UpdateActivityStatus(context.Background(), []string{"a"}, domain.DirectionActivate)
			assert.Equal(t, !tt.invalidates, g.Cached())

			g.FetchListings(context.Background())
			g.UpdateReviewStatus(context.Background(), []string{"a"}, true)
			assert.Equal(t, !tt.invalidates, g.Cached())
		})
	}
}

func TestCachingGateway_ZeroTTLPassesThrough(t *testing.T) {
	next := newCounting()
	g := NewCachingGateway(next, 0)

	g.FetchListings(context.Background())
	g.FetchListings(context.Background())

	assert.Equal(t, 2, next.fetches)
	assert.False(t, g.Cached())
}
