// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/tui/styles"
)

// loadController builds a controller and fetches the working set.
// Follow-up refreshes run before the transition call returns.
func loadController(ctx context.Context, out io.Writer) (*dashboard.Controller, error) {
	c, err := loadedConfig()
	if err != nil {
		return nil, err
	}
	if c.Token == "" {
		return nil, errors.ErrNoAuthToken
	}

	ctrl := getContainer().NewController(cliNotifier{out: out}, dashboard.WithScheduler(dashboard.SyncScheduler))
	if err := ctrl.Refresh(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func newListingsCommand() *cobra.Command {
	var (
		tabFlag     string
		expiring    bool
		reviewsFlag string
		search      string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:     "listings",
		Aliases: []string{"ls"},
		Short:   "List your listings",
		Long: `List the listings on one tab, narrowed by the same filters as the dashboard.

Examples:
  propdash listings
  propdash listings --tab inactive
  propdash listings --expiring --reviews disabled
  propdash listings --search lisbon --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab := cfg.Tab()
			if cmd.Flags().Changed("tab") {
				t, err := listing.ParseTab(tabFlag)
				if err != nil {
					return err
				}
				tab = t
			}
			reviews, err := listing.ParseReviewFilter(reviewsFlag)
			if err != nil {
				return err
			}

			ctrl, err := loadController(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctrl.SetTab(tab)
			ctrl.SetFilters(listing.Filters{ExpiringLicense: expiring, Reviews: reviews})
			ctrl.SetSearch(search)
			visible := ctrl.Visible()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(visible)
			}

			if len(visible) == 0 {
				fmt.Fprintln(out, "No listings match")
				return nil
			}
			fmt.Fprintln(out, renderListingTable(visible))
			fmt.Fprintf(out, "%d %s listings\n", len(visible), tab)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tabFlag, "tab", "t", "active", "tab to list: active or inactive")
	cmd.Flags().BoolVarP(&expiring, "expiring", "e", false, "only listings with the license flag set")
	cmd.Flags().StringVarP(&reviewsFlag, "reviews", "r", "", "filter by review status: enabled or disabled")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title, price or location")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print listings as JSON")

	return cmd
}

func renderListingTable(rows []listing.ViewModel) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "TITLE", "PRICE", "ROOMS", "LOCATION", "RATING", "REVIEWS", "LICENSE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, vm := range rows {
		t.Row(
			vm.ID,
			vm.Title,
			vm.Price,
			vm.Rooms,
			vm.Location,
			fmt.Sprintf("%.1f", vm.Rating),
			styles.Check(vm.ReviewEnabled),
			styles.Check(vm.License),
		)
	}
	return t.String()
}
