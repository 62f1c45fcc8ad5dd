// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/container"
	"github.com/propdash/propdash-cli/internal/dashboard"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/mock"
	"github.com/propdash/propdash-cli/internal/tui"
	tuidebug "github.com/propdash/propdash-cli/internal/tui/debug"
	"github.com/propdash/propdash-cli/internal/tui/messages"
	"github.com/propdash/propdash-cli/internal/tui/views"
)

const (
	demoListings = 60
	demoLatency  = 400 * time.Millisecond
)

func newTUICommand() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive Terminal User Interface",
		Long: `Launch the PropDash dashboard for an interactive experience.

The dashboard provides:
- Active and inactive tabs with search and filters
- Selection mode with bulk status and review toggles
- A per-listing action menu
- Vim-style keybindings

Set PROPDASH_DEBUG_LOG=1 to write a debug log while it runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadedConfig()
			if err != nil {
				return err
			}

			tuiLogger := tuidebug.Logger()
			var opts []container.Option
			if demo {
				opts = append(opts, container.WithGateway(
					mock.NewGateway(mock.GenerateListings(demoListings, time.Now().UnixNano()), demoLatency),
				))
			} else if c.Token == "" {
				return errors.ErrNoAuthToken
			}

			appContainer = container.NewContainer(c, tuiLogger, opts...)

			bridge := messages.NewBridge()
			ctrl := appContainer.NewController(bridge, dashboard.WithOnChange(bridge.Changed))
			if !demo {
				appContainer.WarmStart(ctrl)
			}

			app := tui.NewApp(ctrl, bridge,
				views.WithLogger(tuiLogger),
				views.WithURLs(config.GetURLs(c.APIURL)),
				views.WithRequestTimeout(c.RequestTimeout),
			)
			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "use generated listings instead of your account")
	return cmd
}
