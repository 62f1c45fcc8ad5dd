// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mock provides generated listings and an in-memory gateway for
// demo mode and tests.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/models"
)

var (
	places = []struct{ city, country, currency string }{
		{"Miami", "USA", "USD"},
		{"Austin", "USA", "USD"},
		{"Lisbon", "Portugal", "EUR"},
		{"Porto", "Portugal", "EUR"},
		{"Barcelona", "Spain", "EUR"},
		{"London", "UK", "GBP"},
		{"Edinburgh", "UK", "GBP"},
		{"Dubai", "UAE", "AED"},
	}

	adjectives = []string{
		"Sunny", "Quiet", "Modern", "Rustic", "Bright", "Cozy", "Spacious", "Charming",
	}

	kinds = []string{
		"Loft", "Studio", "Villa", "Apartment", "Townhouse", "Penthouse", "Cottage",
	}
)

// GenerateListings returns n listings. The same seed yields the same listings.
func GenerateListings(n int, seed int64) []models.RawListing {
	r := rand.New(rand.NewSource(seed))
	out := make([]models.RawListing, 0, n)

	for i := 0; i < n; i++ {
		place := places[r.Intn(len(places))]
		l := models.RawListing{
			MongoID:       models.NewFlexibleID(fmt.Sprintf("lst_%04d", i+1)),
			Title:         fmt.Sprintf("%s %s in %s", adjectives[r.Intn(len(adjectives))], kinds[r.Intn(len(kinds))], place.city),
			Price:         models.NewFlexibleNumber(float64(50 + r.Intn(95)*50)),
			Currency:      place.currency,
			Bedrooms:      models.NewFlexibleNumber(float64(r.Intn(5))),
			City:          place.city,
			Country:       place.country,
			Rating:        models.NewFlexibleNumber(float64(30+r.Intn(21)) / 10),
			ReviewEnabled: r.Float32() < 0.6,
			License:       r.Float32() < 0.7,
			IsActive:      r.Float32() < 0.65,
		}
		// some records only carry a unit number, like legacy imports
		if r.Intn(10) == 0 {
			l.Title = ""
			l.UnitNo = fmt.Sprintf("Unit %d%02d", r.Intn(30)+1, r.Intn(20)+1)
		}
		out = append(out, l)
	}

	return out
}

// Gateway is an in-memory domain.ListingGateway
type Gateway struct {
	mu       sync.Mutex
	listings []models.RawListing
	latency  time.Duration
}

// NewGateway serves listings, waiting latency before each answer
func NewGateway(listings []models.RawListing, latency time.Duration) *Gateway {
	return &Gateway{
		listings: append([]models.RawListing(nil), listings...),
		latency:  latency,
	}
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(g.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) FetchListings(ctx context.Context) domain.Envelope[[]models.RawListing] {
	if err := g.wait(ctx); err != nil {
		return domain.Failure[[]models.RawListing](err, "")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return domain.Succeeded(append([]models.RawListing(nil), g.listings...), "")
}

func (g *Gateway) UpdateActivityStatus(ctx context.Context, ids []string, direction domain.Direction) domain.Envelope[json.RawMessage] {
	if err := g.wait(ctx); err != nil {
		return domain.Failure[json.RawMessage](err, "")
	}
	active := direction == domain.DirectionActivate
	n := g.apply(ids, func(l *models.RawListing) { l.IsActive = active })
	return updated(n)
}

func (g *Gateway) UpdateReviewStatus(ctx context.Context, ids []string, enable bool) domain.Envelope[json.RawMessage] {
	if err := g.wait(ctx); err != nil {
		return domain.Failure[json.RawMessage](err, "")
	}
	n := g.apply(ids, func(l *models.RawListing) { l.ReviewEnabled = enable })
	return updated(n)
}

// Listings returns a copy of the current backend state
func (g *Gateway) Listings() []models.RawListing {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.RawListing(nil), g.listings...)
}

func (g *Gateway) apply(ids []string, fn func(*models.RawListing)) int {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for i := range g.listings {
		if _, ok := want[g.listings[i].GetIDString()]; ok {
			fn(&g.listings[i])
			n++
		}
	}
	return n
}

func updated(n int) domain.Envelope[json.RawMessage] {
	data, _ := json.Marshal(map[string]interface{}{"success": true, "updated": n})
	return domain.Succeeded(json.RawMessage(data), fmt.Sprintf("%d listings updated", n))
}
