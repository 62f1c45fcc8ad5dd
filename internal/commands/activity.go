// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/listing"
)

func newActivityCommand(direction domain.Direction) *cobra.Command {
	use, short, aliases := "activate", "Activate listings", []string(nil)
	if direction == domain.DirectionInactivate {
		use, short, aliases = "deactivate", "Deactivate listings", []string{"inactivate"}
	}

	return &cobra.Command{
		Use:     use + " [ids...]",
		Aliases: aliases,
		Short:   short,
		Long: fmt.Sprintf(`%s by id. Without ids, pick listings interactively.

Examples:
  propdash %s lst_0001 lst_0002
  propdash %s`, short, use, use),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl, err := loadController(cmd.Context(), out)
			if err != nil {
				return err
			}

			ids := dedupe(args)
			if len(ids) == 0 {
				// only listings the action would change
				var candidates []listing.ViewModel
				for _, vm := range ctrl.Snapshot().Listings {
					if vm.IsActive != (direction == domain.DirectionActivate) {
						candidates = append(candidates, vm)
					}
				}
				if ids, err = pickListings(candidates, use+"> "); err != nil {
					return err
				}
			}

			found, err := resolveListings(ctrl, ids, out)
			if err != nil {
				return err
			}

			if _, err := ctrl.ApplyActivityTransition(cmd.Context(), listingIDs(found), direction); err != nil {
				return transitionFailure(err)
			}
			return nil
		},
	}
}
