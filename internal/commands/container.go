// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/propdash/propdash-cli/internal/container"
)

var appContainer *container.Container

// getContainer returns the application container, creating it if necessary.
// opts only apply on creation.
func getContainer(opts ...container.Option) *container.Container {
	if appContainer == nil {
		appContainer = container.NewContainer(cfg, logger, opts...)
	}
	return appContainer
}

// resetContainer drops the container so the next command rebuilds it
func resetContainer() {
	appContainer = nil
}
