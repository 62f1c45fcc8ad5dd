// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package dto

// UpdateStatusRequest is the body of PATCH /api/v1/listings/status
type UpdateStatusRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

// UpdateReviewsRequest is the body of PATCH /api/v1/listings/reviews
type UpdateReviewsRequest struct {
	IDs           []string `json:"ids"`
	EnableReviews bool     `json:"enableReviews"`
}
