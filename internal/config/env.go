// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

const (
	// EnvToken overrides any stored session token
	EnvToken = "PROPDASH_TOKEN"

	// EnvAPIURL overrides the configured API URL
	EnvAPIURL = "PROPDASH_API_URL"

	// EnvDebug enables debug logging
	EnvDebug = "PROPDASH_DEBUG"

	// EnvConfigDir replaces ~/.propdash as the config directory
	EnvConfigDir = "PROPDASH_CONFIG_DIR"

	// EnvDebugLog names a file the TUI writes debug logs to
	EnvDebugLog = "PROPDASH_DEBUG_LOG"

	// EnvEnvironment selects dev URLs when set to "dev"
	EnvEnvironment = "PROPDASH_ENV"
)
