// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newDocsCommand() *cobra.Command {
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate documentation",
		Long:  `Generate man pages or markdown reference documentation for every PropDash command.`,
	}

	manCmd := &cobra.Command{
		Use:   "man [output-dir]",
		Short: "Generate man pages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := outputDirArg(args, "man")
			if err := os.MkdirAll(outputDir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			header := &doc.GenManHeader{
				Title:   "PROPDASH",
				Section: "1",
				Manual:  "PropDash CLI Manual",
				Source:  "PropDash",
			}
			if err := doc.GenManTree(cmd.Root(), header, outputDir); err != nil {
				return fmt.Errorf("failed to generate man pages: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Man pages generated in %s directory\n", outputDir)
			return nil
		},
	}

	markdownCmd := &cobra.Command{
		Use:   "markdown [output-dir]",
		Short: "Generate markdown documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := outputDirArg(args, "docs/generated")
			if err := os.MkdirAll(outputDir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			if err := doc.GenMarkdownTree(cmd.Root(), outputDir); err != nil {
				return fmt.Errorf("failed to generate markdown docs: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Markdown documentation generated in %s directory\n", outputDir)
			return nil
		},
	}

	docsCmd.AddCommand(manCmd, markdownCmd)
	return docsCmd
}

func outputDirArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
