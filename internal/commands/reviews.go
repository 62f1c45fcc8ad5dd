// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
)

func newReviewsCommand() *cobra.Command {
	reviewsCmd := &cobra.Command{
		Use:   "reviews",
		Short: "Turn guest reviews on or off",
		Long: `Turn guest reviews on or off for listings.
Listings already in the requested state are skipped.`,
	}

	reviewsCmd.AddCommand(
		newReviewsDirectionCommand(domain.DirectionEnable, "Enable reviews for listings"),
		newReviewsDirectionCommand(domain.DirectionDisable, "Disable reviews for listings"),
	)
	return reviewsCmd
}

func newReviewsDirectionCommand(direction domain.Direction, short string) *cobra.Command {
	use := string(direction)

	return &cobra.Command{
		Use:   use + " [ids...]",
		Short: short,
		Long: short + `. Without ids, pick listings interactively.

Examples:
  propdash reviews ` + use + ` lst_0001 lst_0002
  propdash reviews ` + use,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl, err := loadController(cmd.Context(), out)
			if err != nil {
				return err
			}

			ids := dedupe(args)
			if len(ids) == 0 {
				all := ctrl.Snapshot().Listings
				targets := listing.ReviewTargets(all, direction)
				candidates, _ := ctrl.Lookup(targets)
				if ids, err = pickListings(candidates, "reviews "+use+"> "); err != nil {
					return err
				}
			}

			found, err := resolveListings(ctrl, ids, out)
			if err != nil {
				return err
			}

			targets := listing.ReviewTargets(found, direction)
			if _, err := ctrl.ApplyReviewsTransition(cmd.Context(), targets, direction); err != nil {
				if errors.IsEmptySelection(err) {
					return nil
				}
				return transitionFailure(err)
			}
			return nil
		},
	}
}
