// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/pkg/version"
)

var (
	cfg           *config.Config
	cfgErr        error
	debug         bool
	logger        = slog.New(slog.DiscardHandler)
	newTokenStore = config.NewTokenStore
)

const (
	exitFailure  = 1
	exitRejected = 2
	exitBusy     = 3
)

// reportedError is a failure the user has already been told about
type reportedError struct {
	err  error
	code int
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCommand builds the full command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "propdash",
		Version: version.GetVersion(),
		Short:   "PropDash CLI - manage your property listings from the terminal",
		Long: `PropDash CLI lets hosts review their listings, switch them between
active and inactive, and turn guest reviews on or off, one listing at a time
or in bulk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resetContainer()
			cfg, cfgErr = config.LoadWithToken(newTokenStore())
			if cfgErr != nil {
				fallback := config.Default()
				cfg = &fallback
			}
			if debug || os.Getenv(config.EnvDebug) == "1" {
				cfg.Debug = true
			}
			logger = newLogger(cfg.Debug)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	rootCmd.AddCommand(
		newVersionCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newConfigCommand(),
		newListingsCommand(),
		newActivityCommand(domain.DirectionActivate),
		newActivityCommand(domain.DirectionInactivate),
		newReviewsCommand(),
		NewBulkCommand(),
		newTUICommand(),
		newCompletionCommand(),
		newDocsCommand(),
	)

	return rootCmd
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadedConfig returns the configuration, failing if it could not be read
func loadedConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load config: %w", cfgErr)
	}
	return cfg, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}

	var reported *reportedError
	if !stderrors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.FormatUserError(err))
		if hint := errorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "\nHint: %s\n", hint)
		}
	}

	os.Exit(exitCode(err))
}

func errorHint(err error) string {
	switch {
	case errors.IsNoAuthToken(err), errors.IsAuthError(err):
		return "Run 'propdash login' to sign in"
	case errors.IsNetworkError(err):
		return "Check your internet connection and try again"
	case errors.IsNotFound(err):
		return "Run 'propdash listings' to see the current listing ids"
	}
	return ""
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	var reported *reportedError
	if stderrors.As(err, &reported) && reported.code != 0 {
		return reported.code
	}
	return exitFailure
}

// transitionFailure wraps an error the controller already reported,
// choosing the exit status from its kind.
func transitionFailure(err error) error {
	code := exitFailure
	switch {
	case errors.IsBusy(err):
		code = exitBusy
	case errors.IsServerRejected(err):
		code = exitRejected
	}
	return &reportedError{err: err, code: code}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetBuildInfo())
		},
	}
}
