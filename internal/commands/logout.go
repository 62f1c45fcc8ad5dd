// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/cache"
)

func newLogoutCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Long:  `Remove the stored session token from all secure storage locations and drop the local listing snapshot.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprint(out, "Are you sure you want to logout? (y/N): ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(out, "Logout cancelled.")
					return nil
				}
			}

			if err := newTokenStore().DeleteToken(); err != nil {
				return fmt.Errorf("failed to remove session token: %w", err)
			}

			if store, err := cache.NewSnapshotStore(cfg.APIURL); err == nil {
				if err := store.Clear(); err != nil {
					logger.Warn("failed to remove listing snapshot", "error", err)
				}
			}

			fmt.Fprintln(out, "✓ Session token removed from secure storage")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
