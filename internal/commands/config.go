// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage PropDash configuration",
		Long: fmt.Sprintf(`Manage PropDash CLI configuration stored in the config file.

Keys: %s

Environment variables prefixed with PROPDASH_ override the file.
The session token is never stored here; use 'propdash login'.`, strings.Join(config.Keys(), ", ")),
	}

	configSetCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.LoadConfig()
			if err != nil {
				d := config.Default()
				fileCfg = &d
			}

			if err := fileCfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveConfig(fileCfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			value, _ := fileCfg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], value)
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadedConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				value, err := c.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			}

			for _, key := range config.Keys() {
				value, _ := c.Get(key)
				fmt.Fprintf(out, "%s: %s\n", key, value)
			}
			return nil
		},
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	configCmd.AddCommand(configSetCmd, configGetCmd, configPathCmd)
	return configCmd
}
