// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package container

import (
	"log/slog"

	"github.com/propdash/propdash-cli/internal/api"
	"github.com/propdash/propdash-cli/internal/cache"
	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/domain"
)

// Container holds all application dependencies
type Container struct {
	config    *config.Config
	logger    *slog.Logger
	client    *api.Client
	gateway   domain.ListingGateway
	caching   *cache.CachingGateway
	snapshots *cache.SnapshotStore
}

// Option overrides a dependency
type Option func(*Container)

// WithGateway replaces the API client as the listing backend
func WithGateway(gw domain.ListingGateway) Option {
	return func(c *Container) { c.gateway = gw }
}

// WithSnapshotStore replaces the default per-host snapshot location
func WithSnapshotStore(s *cache.SnapshotStore) Option {
	return func(c *Container) { c.snapshots = s }
}

// NewContainer wires the API client, listing cache and snapshot store for cfg
func NewContainer(cfg *config.Config, logger *slog.Logger, opts ...Option) *Container {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Container{config: cfg, logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	if c.gateway == nil {
		c.client = api.NewClient(cfg.Token, cfg.APIURL, cfg.Debug,
			api.WithTimeout(cfg.RequestTimeout),
			api.WithLogger(logger),
		)
		c.gateway = c.client
	}

	c.caching = cache.NewCachingGateway(c.gateway, cfg.CacheTTL)

	if c.snapshots == nil {
		store, err := cache.NewSnapshotStore(cfg.APIURL)
		if err != nil {
			logger.Warn("listing snapshots disabled", "error", err)
		} else {
			c.snapshots = store
		}
	}

	return c
}

// Config returns the application configuration
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Client returns the API client, or nil when a gateway override is in use
func (c *Container) Client() *api.Client {
	return c.client
}

// Gateway returns the cached listing gateway
func (c *Container) Gateway() *cache.CachingGateway {
	return c.caching
}

// Snapshots may return nil when the cache directory is unusable
func (c *Container) Snapshots() *cache.SnapshotStore {
	return c.snapshots
}

// NewController builds a dashboard controller over the cached gateway,
// configured from the loaded settings. opts are applied last.
func (c *Container) NewController(notifier domain.Notifier, opts ...dashboard.Option) *dashboard.Controller {
	base := []dashboard.Option{
		dashboard.WithLogger(c.logger),
		dashboard.WithMixedReviewPolicy(c.config.Policy()),
		dashboard.WithRefreshTimeout(c.config.RefreshTimeout),
		dashboard.WithTab(c.config.Tab()),
	}
	if c.snapshots != nil {
		base = append(base, dashboard.WithSnapshotWriter(c.snapshots))
	}
	return dashboard.New(c.caching, notifier, append(base, opts...)...)
}

// WarmStart seeds ctrl with the last saved snapshot, if there is one
func (c *Container) WarmStart(ctrl *dashboard.Controller) bool {
	if c.snapshots == nil {
		return false
	}
	snap, err := c.snapshots.Load()
	if err != nil || snap == nil || len(snap.Listings) == 0 {
		if err != nil {
			c.logger.Debug("no usable listing snapshot", "error", err)
		}
		return false
	}
	ctrl.Seed(snap.Listings)
	return true
}
