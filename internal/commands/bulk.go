// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/bulk"
	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/tui/styles"
)

// NewBulkCommand creates the bulk command
func NewBulkCommand() *cobra.Command {
	bulkCmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply a plan of listing updates from files",
		Long: `Apply a plan of listing updates from configuration files.

Supports multiple formats:
- YAML or JSON files with an actions list
- JSONL format with one action per line
- Markdown format with the plan in front matter

Use 'propdash bulk example' to generate a starting point.`,
	}

	bulkCmd.AddCommand(newBulkApplyCommand(), newBulkExampleCommand())
	return bulkCmd
}

func newBulkApplyCommand() *cobra.Command {
	var (
		files           []string
		dryRun          bool
		continueOnError bool
	)

	cmd := &cobra.Command{
		Use:   "apply -f plan.yaml [-f more.md]",
		Short: "Apply a bulk plan",
		Long: `Apply the actions of one or more plan files in order.

Examples:
  # Single plan file
  propdash bulk apply -f spring.yaml

  # Several files merged into one plan
  propdash bulk apply -f close-old.md -f reviews.jsonl

  # Check a plan without sending anything
  propdash bulk apply -f spring.yaml --dry-run`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(append(files, args...))
			if err != nil {
				return err
			}
			plan, err := bulk.LoadPlan(paths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				return printDryRun(out, plan)
			}

			ctrl, err := loadController(cmd.Context(), out)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, styles.TitleStyle.Render(plan.Title))
			report := bulk.Apply(cmd.Context(), ctrl, plan, bulk.ApplyOptions{
				ContinueOnError: continueOnError,
				OnStep: func(i int, step bulk.StepResult) {
					printStep(out, i, len(plan.Actions), step)
				},
			})

			fmt.Fprintf(out, "\n%d applied, %d skipped, %d failed, %d not run\n",
				report.Count(bulk.StepApplied), report.Count(bulk.StepSkipped),
				report.Count(bulk.StepFailed), report.Count(bulk.StepNotRun))

			if report.Failed() {
				return &reportedError{err: fmt.Errorf("bulk plan failed")}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "plan file (repeatable; globs allowed)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and print the plan without applying it")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep going after a failed action")

	return cmd
}

// expandPaths resolves glob patterns. A pattern with no matches is kept as a literal path.
func expandPaths(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			paths = append(paths, pattern)
		} else {
			paths = append(paths, matches...)
		}
	}
	return paths, nil
}

func printDryRun(out io.Writer, plan *bulk.Plan) error {
	data, err := plan.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓ Plan valid"))
	fmt.Fprintf(out, "Sources: %s\n", strings.Join(plan.Sources, ", "))
	fmt.Fprintf(out, "Actions: %d\n\n", len(plan.Actions))
	fmt.Fprintln(out, bulk.Highlight(string(data)))
	if plan.Notes != "" {
		fmt.Fprintln(out, styles.HelpStyle.Render(plan.Notes))
	}
	return nil
}

func printStep(out io.Writer, i, total int, step bulk.StepResult) {
	prefix := fmt.Sprintf("[%d/%d] %s", i+1, total, step.Action)
	for _, id := range step.Missing {
		fmt.Fprintf(out, "%s: unknown listing %q\n", prefix, id)
	}

	switch step.Status {
	case bulk.StepApplied:
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ "+prefix+": "+step.Result.Message))
	case bulk.StepSkipped:
		fmt.Fprintln(out, styles.InfoStyle.Render("- "+prefix+": nothing to update"))
	case bulk.StepFailed:
		fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+prefix+": "+step.Err.Error()))
	case bulk.StepNotRun:
		fmt.Fprintln(out, styles.DisabledStyle.Render("  "+prefix+": not run"))
	}
}

func newBulkExampleCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Generate an example plan file",
		Long: `Generate an example bulk plan.

Examples:
  propdash bulk example                       # YAML to stdout
  propdash bulk example --format md           # Markdown with front matter
  propdash bulk example -o plan.jsonl         # format taken from the extension`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("format") && output != "" {
				if f := bulk.FormatFor(output); f != "" {
					format = f
				}
			}

			content, err := examplePlan(format)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Example plan written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "yaml, json, jsonl or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func examplePlan(format string) (string, error) {
	plan := bulk.Plan{
		Title: "Spring cleanup",
		Actions: []bulk.Action{
			{Kind: domain.KindActivity, Direction: domain.DirectionInactivate, IDs: []string{"lst_0003", "lst_0007"}},
			{Kind: domain.KindReviews, Direction: domain.DirectionEnable, IDs: []string{"lst_0001", "lst_0002"}},
		},
	}

	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := plan.Marshal()
		return string(data), err
	case "json":
		data, err := json.MarshalIndent(plan, "", "  ")
		return string(data) + "\n", err
	case "jsonl", "ndjson":
		var b strings.Builder
		for _, a := range plan.Actions {
			data, err := json.Marshal(a)
			if err != nil {
				return "", err
			}
			b.Write(data)
			b.WriteByte('\n')
		}
		return b.String(), nil
	case "markdown", "md":
		data, err := plan.Marshal()
		if err != nil {
			return "", err
		}
		return "---\n" + string(data) + "---\n\nClose the winter-only units and open reviews on the two best sellers.\n", nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml, json, jsonl or markdown)", format)
	}
}
