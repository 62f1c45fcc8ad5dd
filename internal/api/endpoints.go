// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

const (
	// EndpointListings returns every listing owned by the session's account
	EndpointListings = "/api/v1/listings"

	// EndpointListingStatus bulk-activates or bulk-inactivates listings
	EndpointListingStatus = "/api/v1/listings/status"

	// EndpointListingReviews bulk-enables or bulk-disables guest reviews
	EndpointListingReviews = "/api/v1/listings/reviews"

	// EndpointAuthMe returns the account behind the token
	EndpointAuthMe = "/api/v1/auth/me"
)
