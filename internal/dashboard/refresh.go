// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"time"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/models"
)

const refreshKey = "listings"

// Refresh fetches every listing and replaces the working set.
// Concurrent calls share a single fetch. A fetch that started before an
// optimistic patch is discarded; the refresh scheduled by that patch
// brings the server state instead.
func (c *Controller) Refresh(ctx context.Context) error {
	_, err, shared := c.refreshGroup.Do(refreshKey, func() (interface{}, error) {
		c.mu.RLock()
		startGen := c.generation
		c.mu.RUnlock()

		env := c.gateway.FetchListings(ctx)
		raw, err := fetchOutcome(env)
		if err != nil {
			return nil, err
		}

		vms := listing.Project(raw)

		c.mu.Lock()
		if c.generation != startGen {
			c.mu.Unlock()
			c.logger.Debug("discarding listings fetched before the latest update")
			return nil, nil
		}
		c.listings = vms
		c.loaded = true
		c.lastRefresh = time.Now()
		c.mu.Unlock()

		c.logger.Debug("listings refreshed", "count", len(vms))

		if c.snapshots != nil {
			if err := c.snapshots.Save(vms); err != nil {
				c.logger.Warn("failed to save listing snapshot", "error", err)
			}
		}
		if c.onChange != nil {
			c.onChange()
		}
		return nil, nil
	})
	if shared {
		c.logger.Debug("refresh joined an in-flight fetch")
	}
	return err
}

func fetchOutcome(env domain.Envelope[[]models.RawListing]) ([]models.RawListing, error) {
	if env.Cause != nil {
		return nil, env.Cause
	}
	if !env.Success {
		return nil, &errors.ServerRejectedError{Action: "listing fetch", Message: env.Message}
	}
	if env.Data == nil {
		return nil, &errors.EmptyResponseError{Operation: "listing fetch"}
	}
	return *env.Data, nil
}

// scheduleRefresh reconciles with the server after a transition. A failure
// is logged and the optimistic patch stays in place.
func (c *Controller) scheduleRefresh() {
	// an in-flight fetch predates the patch, so do not join it
	c.refreshGroup.Forget(refreshKey)
	c.schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
		defer cancel()

		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("background refresh failed", "error", err)
		}
	})
}
