// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/tui/styles"
	"github.com/propdash/propdash-cli/internal/utils"
)

func (d *DashboardView) View() string {
	if d.width == 0 || d.height == 0 {
		return "Loading listings..."
	}

	st := d.ctrl.Snapshot()

	_, overlayOpen := st.Overlay.Active()

	var body string
	switch {
	case d.showHelp:
		body = lipgloss.Place(d.width, d.bodyHeight(), lipgloss.Left, lipgloss.Top, d.help.View(d.keys))
	case overlayOpen:
		body = d.renderOverlay(st)
	case !st.Loaded && len(st.Listings) == 0:
		body = lipgloss.Place(d.width, d.bodyHeight(), lipgloss.Center, lipgloss.Center,
			styles.ProcessingStyle.Render("Fetching listings..."))
	default:
		body = d.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderHeader(st),
		d.renderTabs(st),
		d.renderFilters(st),
		body,
		d.renderStatusLine(st),
	)
}

func (d *DashboardView) bodyHeight() int {
	return max(d.height-chromeHeight, 3)
}

func (d *DashboardView) renderHeader(st dashboard.State) string {
	title := styles.TitleStyle.Render("PropDash")
	summary := styles.InfoStyle.Render(fmt.Sprintf("%d listings", len(st.Listings)))
	return title + " " + summary
}

func (d *DashboardView) renderTabs(st dashboard.State) string {
	active, inactive := listing.Partition(st.Listings)
	tab := func(label string, n int, on bool) string {
		text := fmt.Sprintf("%s (%d)", label, n)
		if on {
			return styles.ActiveTabStyle.Render(text)
		}
		return styles.InactiveTabStyle.Render(text)
	}
	return tab("Active", len(active), st.Tab == listing.TabActive) +
		tab("Inactive", len(inactive), st.Tab == listing.TabInactive)
}

func (d *DashboardView) renderFilters(st dashboard.State) string {
	filter := func(label string, on bool) string {
		if on {
			return styles.FilterOnStyle.Render("● " + label)
		}
		return styles.FilterOffStyle.Render("○ " + label)
	}

	parts := []string{
		filter("expiring license", st.Filters.ExpiringLicense),
		filter("reviews on", st.Filters.Reviews == listing.ReviewFilterEnabled),
		filter("reviews off", st.Filters.Reviews == listing.ReviewFilterDisabled),
	}

	switch {
	case d.searching:
		parts = append(parts, d.search.View())
	case st.Search != "":
		parts = append(parts, styles.InfoStyle.Render(fmt.Sprintf("search: %q", st.Search)))
	}

	if st.Selection.IsSelectionMode {
		n := len(st.Selection.Resolve(st.Visible))
		parts = append(parts, styles.MarkStyle.Render(fmt.Sprintf("%d selected", n)))
	}

	return " " + strings.Join(parts, "  ")
}

func (d *DashboardView) renderOverlay(st dashboard.State) string {
	id, _ := st.Overlay.Active()
	vm, ok := listing.Index(st.Listings)[id]
	if !ok {
		return d.table.View()
	}

	status := "Deactivate"
	if !vm.IsActive {
		status = "Activate"
	}
	reviews := "Disable reviews"
	if !vm.ReviewEnabled {
		reviews = "Enable reviews"
	}

	action := func(k, label string, disabled bool) string {
		line := fmt.Sprintf("[%s] %s", k, label)
		if disabled {
			return styles.DisabledStyle.Render(line)
		}
		return line
	}

	lines := []string{
		styles.TitleStyle.Render(utils.TruncateWithEllipsis(vm.Title, 40)),
		styles.InfoStyle.Render(fmt.Sprintf("%s · %s · %s", vm.Location, vm.Price, vm.Rooms)),
		"",
		action("s", status, st.UpdatingStatus || d.pendingStatus),
		action("w", reviews, st.UpdatingReviews || d.pendingReviews),
		action("o", "Open in browser", false),
		action("c", "Copy id", false),
		"",
		d.help.ShortHelpView(d.overlayKeys.ShortHelp()),
	}

	box := styles.OverlayStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(d.width, d.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (d *DashboardView) renderStatusLine(st dashboard.State) string {
	left := fmt.Sprintf(" %s %s", strings.ToUpper(string(st.Tab)), d.table.Position())

	right := "updated " + utils.FormatTimeAgo(st.LastRefresh)
	switch {
	case st.UpdatingStatus || d.pendingStatus:
		right = "updating status"
	case st.UpdatingReviews || d.pendingReviews:
		right = "updating reviews"
	case d.loading:
		right = "refreshing"
	}

	return d.status.
		SetLeft(left).
		SetRight(right + " ").
		SetHelp(d.help.ShortHelpView(d.keys.ShortHelp())).
		Render()
}
