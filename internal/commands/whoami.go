// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/utils"
)

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"info"},
		Short:   "Display authentication information",
		Long:    `Display the account behind the stored session token and where the token is stored.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			info := newTokenStore().Info()

			fmt.Fprintln(out, "Authentication Status:")
			fmt.Fprintln(out)
			if info.Source == config.SourceNone {
				fmt.Fprintln(out, "  Status: Not signed in")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "  Run 'propdash login' to store a session token")
				return nil
			}
			printStorage(out, info)

			c, err := loadedConfig()
			if err != nil {
				return err
			}
			if c.Token == "" {
				return errors.ErrNoAuthToken
			}

			user, err := getContainer().Client().VerifyAuth(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Account Information:")
			fmt.Fprintf(out, "  Email: %s\n", user.Email)
			if user.Name != "" {
				fmt.Fprintf(out, "  Name: %s\n", user.Name)
			}
			if user.Role != "" {
				fmt.Fprintf(out, "  Role: %s\n", user.Role)
			}
			fmt.Fprintf(out, "  Token: %s\n", utils.MaskToken(c.Token))
			fmt.Fprintf(out, "  API: %s\n", c.APIURL)
			return nil
		},
	}
}
