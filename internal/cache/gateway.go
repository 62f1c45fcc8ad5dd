// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache keeps listing data close: an in-memory TTL cache in front of
// the gateway and an on-disk snapshot for warm starts.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/models"
)

const listingsKey = "listings:all"

// CachingGateway serves repeated listing fetches from memory for a short
// TTL. Any successful update drops the cached set so the next fetch reaches
// the server.
type CachingGateway struct {
	next  domain.ListingGateway
	ttl   time.Duration
	cache *ttlcache.Cache[string, domain.Envelope[[]models.RawListing]]
}

// NewCachingGateway wraps next. A non-positive ttl disables caching.
func NewCachingGateway(next domain.ListingGateway, ttl time.Duration) *CachingGateway {
	return &CachingGateway{
		next: next,
		ttl:  ttl,
		cache: ttlcache.New[string, domain.Envelope[[]models.RawListing]](
			ttlcache.WithCapacity[string, domain.Envelope[[]models.RawListing]](1),
			ttlcache.WithDisableTouchOnHit[string, domain.Envelope[[]models.RawListing]](),
		),
	}
}

func (g *CachingGateway) FetchListings(ctx context.Context) domain.Envelope[[]models.RawListing] {
	if g.ttl > 0 {
		if item := g.cache.Get(listingsKey); item != nil {
			return item.Value()
		}
	}

	env := g.next.FetchListings(ctx)
	if g.ttl > 0 && env.Success && env.Data != nil {
		g.cache.Set(listingsKey, env, g.ttl)
	}
	return env
}

func (g *CachingGateway) UpdateActivityStatus(ctx context.Context, ids []string, direction domain.Direction) domain.Envelope[json.RawMessage] {
	env := g.next.UpdateActivityStatus(ctx, ids, direction)
	g.invalidateOn(env)
	return env
}

func (g *CachingGateway) UpdateReviewStatus(ctx context.Context, ids []string, enable bool) domain.Envelope[json.RawMessage] {
	env := g.next.UpdateReviewStatus(ctx, ids, enable)
	g.invalidateOn(env)
	return env
}

// Invalidate drops the cached listing set
func (g *CachingGateway) Invalidate() {
	g.cache.Delete(listingsKey)
}

// Cached reports whether a listing set is currently held
func (g *CachingGateway) Cached() bool {
	return g.ttl > 0 && g.cache.Get(listingsKey) != nil
}

func (g *CachingGateway) invalidateOn(env domain.Envelope[json.RawMessage]) {
	if env.Success && !domain.DeclaresFailure(env.Data) {
		g.Invalidate()
	}
}

var (
	_ domain.ListingGateway = (*CachingGateway)(nil)
	_ domain.Invalidator    = (*CachingGateway)(nil)
)
