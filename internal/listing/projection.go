// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package listing holds the pure parts of the bulk-listing orchestrator:
// projecting backend records into view models, tracking selection,
// resolving bulk actions and filtering the visible set.
package listing

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/propdash/propdash-cli/internal/models"
)

const (
	DefaultTitle = "Untitled Property"
	DefaultImage = "/images/property-placeholder.jpg"
)

// ViewModel is the flat, display-ready form of a listing.
type ViewModel struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         string  `json:"price"`
	Rooms         string  `json:"rooms"`
	Location      string  `json:"location"`
	Rating        float64 `json:"rating"`
	ReviewEnabled bool    `json:"reviewEnabled"`
	License       bool    `json:"license"`
	IsActive      bool    `json:"isActive"`
	Image         string  `json:"image"`
}

var currencySymbols = map[string]string{
	"":    "$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

var pricePrinter = message.NewPrinter(language.English)

// Project maps raw backend listings to view models, preserving order.
func Project(raw []models.RawListing) []ViewModel {
	out := make([]ViewModel, 0, len(raw))
	for _, r := range raw {
		out = append(out, ProjectOne(r))
	}
	return out
}

// ProjectOne maps a single raw listing
func ProjectOne(r models.RawListing) ViewModel {
	return ViewModel{
		ID:            r.GetIDString(),
		Title:         projectTitle(r),
		Price:         FormatPrice(r.Price.Or(0), r.Currency),
		Rooms:         FormatRooms(int(r.Bedrooms.Or(0))),
		Location:      fmt.Sprintf("%s, %s", strings.TrimSpace(r.City), strings.TrimSpace(r.Country)),
		Rating:        r.Rating.Or(0),
		ReviewEnabled: r.ReviewEnabled,
		License:       r.License,
		IsActive:      r.IsActive,
		Image:         projectImage(r),
	}
}

func projectTitle(r models.RawListing) string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	if u := strings.TrimSpace(r.UnitNo); u != "" {
		return u
	}
	return DefaultTitle
}

func projectImage(r models.RawListing) string {
	if r.CoverPhoto != "" {
		return r.CoverPhoto
	}
	if len(r.Photos) > 0 && r.Photos[0] != "" {
		return r.Photos[0]
	}
	return DefaultImage
}

// FormatRooms pluralizes the bedroom count: "1 Bed", "3 Beds"
func FormatRooms(bedrooms int) string {
	if bedrooms == 1 {
		return "1 Bed"
	}
	return fmt.Sprintf("%d Beds", bedrooms)
}

// FormatPrice renders a price with grouping separators, e.g. "$1,250" or "AED 900"
func FormatPrice(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	prefix, ok := currencySymbols[code]
	if !ok {
		prefix = code + " "
	}

	if amount == math.Trunc(amount) {
		return prefix + pricePrinter.Sprintf("%d", int64(amount))
	}
	return prefix + pricePrinter.Sprintf("%.2f", amount)
}

// Partition splits listings by activity state. The halves are disjoint and
// together cover the input; order is preserved within each half.
func Partition(vms []ViewModel) (active, inactive []ViewModel) {
	for _, vm := range vms {
		if vm.IsActive {
			active = append(active, vm)
		} else {
			inactive = append(inactive, vm)
		}
	}
	return active, inactive
}

// Index returns listings keyed by id
func Index(vms []ViewModel) map[string]ViewModel {
	idx := make(map[string]ViewModel, len(vms))
	for _, vm := range vms {
		idx[vm.ID] = vm
	}
	return idx
}
