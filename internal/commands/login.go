// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/propdash/propdash-cli/internal/api"
	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/utils"
)

func newLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Store your session token securely",
		Long: `Store your PropDash session token using secure storage.
The token is kept in your system keyring when available,
or in an encrypted file as a fallback.

Pass the token as an argument for CI, or omit it to be prompted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			urls := config.GetURLs(cfg.APIURL)

			var raw string
			if len(args) > 0 {
				raw = args[0]
			} else {
				fmt.Fprintln(out, "Welcome to PropDash CLI!")
				fmt.Fprintf(out, "Create a session token at: %s\n\n", urls.TokensURL)
				fmt.Fprint(out, "Enter your session token: ")
				raw = readSecret(cmd.InOrStdin(), out)
			}

			token, err := utils.NormalizeToken(raw)
			if err != nil {
				return err
			}

			client := api.NewClient(token, cfg.APIURL, cfg.Debug,
				api.WithTimeout(cfg.RequestTimeout),
				api.WithLogger(logger),
			)
			user, err := client.VerifyAuth(cmd.Context())
			if err != nil {
				return fmt.Errorf("invalid session token: %s", utils.SanitizeErrorMessage(err, token))
			}

			store := newTokenStore()
			if err := store.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save session token: %w", err)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "✓ Session token validated and stored successfully!")
			fmt.Fprintf(out, "  Email: %s\n", user.Email)
			if user.Name != "" {
				fmt.Fprintf(out, "  Name: %s\n", user.Name)
			}
			fmt.Fprintln(out)
			printStorage(out, store.Info())
			return nil
		},
	}
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret(in io.Reader, out io.Writer) string {
	fd := getStdinFD()
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err == nil {
			defer utils.ClearByteSlice(secret)
			return string(secret)
		}
	}

	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}

func printStorage(out io.Writer, info config.StorageInfo) {
	switch info.Source {
	case config.SourceKeyring:
		fmt.Fprintf(out, "  Storage: %s (secure)\n", info.KeyringType)
	case config.SourceEncryptedFile:
		fmt.Fprintf(out, "  Storage: Encrypted file (secure)\n  Location: %s\n", info.Location)
	case config.SourceEnvironment:
		fmt.Fprintf(out, "  Storage: Environment variable %s\n", config.EnvToken)
	default:
		fmt.Fprintln(out, "  Storage: not configured")
	}
}
