// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard owns the working set of listings and applies bulk
// transitions against the backend, patching local state once the server
// has confirmed each change.
package dashboard

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/listing"
)

const defaultRefreshTimeout = 30 * time.Second

// Scheduler runs fn at some later point. The controller uses it for the
// refresh that follows a successful transition.
type Scheduler func(fn func())

// GoScheduler runs fn on a new goroutine
func GoScheduler(fn func()) { go fn() }

// SyncScheduler runs fn before returning
func SyncScheduler(fn func()) { fn() }

// SnapshotWriter persists the last fetched listing set
type SnapshotWriter interface {
	Save(listings []listing.ViewModel) error
}

// Option configures a Controller
type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithMixedReviewPolicy(p listing.MixedReviewPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Controller) { c.refreshTimeout = d }
}

func WithTab(t listing.Tab) Option {
	return func(c *Controller) { c.tab = t }
}

func WithSnapshotWriter(w SnapshotWriter) Option {
	return func(c *Controller) { c.snapshots = w }
}

// WithOnChange registers fn to be called after a refresh replaces the working set.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller is safe for concurrent use.
type Controller struct {
	gateway        domain.ListingGateway
	notifier       domain.Notifier
	logger         *slog.Logger
	schedule       Scheduler
	policy         listing.MixedReviewPolicy
	refreshTimeout time.Duration
	snapshots      SnapshotWriter
	onChange       func()

	mu          sync.RWMutex
	listings    []listing.ViewModel
	tab         listing.Tab
	filters     listing.Filters
	search      string
	selection   listing.Selection
	overlay     listing.ActiveOverlay
	loaded      bool
	lastRefresh time.Time
	// generation counts optimistic patches; a fetch started before the
	// latest patch must not replace the working set
	generation uint64

	updatingStatus  atomic.Bool
	updatingReviews atomic.Bool

	refreshGroup singleflight.Group
}

// New creates a controller. A nil notifier discards notifications.
func New(gateway domain.ListingGateway, notifier domain.Notifier, opts ...Option) *Controller {
	c := &Controller{
		gateway:        gateway,
		notifier:       notifier,
		logger:         slog.New(slog.DiscardHandler),
		schedule:       GoScheduler,
		policy:         listing.EnableWins,
		refreshTimeout: defaultRefreshTimeout,
		tab:            listing.TabActive,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = domain.NotifierFunc(func(string, domain.Severity) {})
	}
	return c
}

// State is a point-in-time copy of the controller's state.
type State struct {
	Listings        []listing.ViewModel
	Visible         []listing.ViewModel
	Tab             listing.Tab
	Filters         listing.Filters
	Search          string
	Selection       listing.Selection
	Overlay         listing.ActiveOverlay
	UpdatingStatus  bool
	UpdatingReviews bool
	Loaded          bool
	LastRefresh     time.Time
}

func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]listing.ViewModel, len(c.listings))
	copy(all, c.listings)

	return State{
		Listings:        all,
		Visible:         listing.Visible(c.listings, c.tab, c.filters, c.search),
		Tab:             c.tab,
		Filters:         c.filters,
		Search:          c.search,
		Selection:       c.selection,
		Overlay:         c.overlay,
		UpdatingStatus:  c.updatingStatus.Load(),
		UpdatingReviews: c.updatingReviews.Load(),
		Loaded:          c.loaded,
		LastRefresh:     c.lastRefresh,
	}
}

// Seed installs listings without contacting the backend, e.g. from a
// persisted snapshot. It does nothing once a refresh has succeeded.
func (c *Controller) Seed(listings []listing.ViewModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return
	}
	c.listings = append([]listing.ViewModel(nil), listings...)
}

// Lookup returns the working-set listings for ids in the order given,
// and the ids that are not in the working set.
func (c *Controller) Lookup(ids []string) (found []listing.ViewModel, missing []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := listing.Index(c.listings)
	for _, id := range ids {
		if vm, ok := idx[id]; ok {
			found = append(found, vm)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

func (c *Controller) Visible() []listing.ViewModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return listing.Visible(c.listings, c.tab, c.filters, c.search)
}

// SelectedVisible returns the selected listings that are currently visible
func (c *Controller) SelectedVisible() []listing.ViewModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedVisibleLocked()
}

func (c *Controller) selectedVisibleLocked() []listing.ViewModel {
	return c.selection.Resolve(listing.Visible(c.listings, c.tab, c.filters, c.search))
}

func (c *Controller) Tab() listing.Tab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tab
}

func (c *Controller) SetTab(tab listing.Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = tab
	c.overlay.Close()
}

func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

func (c *Controller) ToggleExpiryFilter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.ExpiringLicense = !c.filters.ExpiringLicense
}

// ToggleReviewFilter turns f on, replacing the other review filter, or off if already on
func (c *Controller) ToggleReviewFilter(f listing.ReviewFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = c.filters.ToggleReviewFilter(f)
}

// SetFilters replaces all filters at once
func (c *Controller) SetFilters(f listing.Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = f
}

func (c *Controller) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = c.selection.Toggle(id)
}

// SelectAllVisible adds every visible listing to the selection
func (c *Controller) SelectAllVisible() {
	c.mu.Lock()
	defer c.mu.Unlock()
	visible := listing.Visible(c.listings, c.tab, c.filters, c.search)
	ids := make([]string, 0, len(visible))
	for _, vm := range visible {
		ids = append(ids, vm.ID)
	}
	c.selection = c.selection.Select(ids...)
}

func (c *Controller) EnterSelectionMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = c.selection.EnterSelectionMode()
}

func (c *Controller) ExitSelectionMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = c.selection.ExitSelectionMode()
}

// ToggleOverlay opens the row menu for id, or closes it
func (c *Controller) ToggleOverlay(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay.Toggle(id)
}

func (c *Controller) CloseOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay.Close()
}

func (c *Controller) IsUpdatingStatus() bool {
	return c.updatingStatus.Load()
}

func (c *Controller) IsUpdatingReviews() bool {
	return c.updatingReviews.Load()
}

// Policy returns the mixed-review policy used by BulkToggleReviews
func (c *Controller) Policy() listing.MixedReviewPolicy {
	return c.policy
}
