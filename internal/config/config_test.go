// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash-cli/internal/listing"
)

func TestLoadConfig_Default(t *testing.T) {
	_ = setupTempHome(t)

	config, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "https://api.propdash.io", config.APIURL)
	assert.Empty(t, config.Token)
	assert.False(t, config.Debug)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.Equal(t, 30*time.Second, config.RefreshTimeout)
	assert.Equal(t, 15*time.Second, config.CacheTTL)
	assert.Equal(t, listing.EnableWins, config.Policy())
	assert.Equal(t, listing.TabActive, config.Tab())
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	home := setupTempHome(t)
	writeConfigFile(t, filepath.Join(home, ".propdash"), `
api_url: https://staging.propdash.io/
debug: true
refresh_timeout: 45s
cache_ttl: 0s
mixed_review_policy: majority-wins
default_tab: inactive
`)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.propdash.io", config.APIURL, "trailing slash is trimmed")
	assert.True(t, config.Debug)
	assert.Equal(t, 45*time.Second, config.RefreshTimeout)
	assert.Zero(t, config.CacheTTL)
	assert.Equal(t, listing.MajorityWins, config.Policy())
	assert.Equal(t, listing.TabInactive, config.Tab())
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	home := setupTempHome(t)
	writeConfigFile(t, filepath.Join(home, ".propdash"), `
api_url: https://file.propdash.io
debug: false
`)
	t.Setenv(EnvAPIURL, "http://localhost:8080")
	t.Setenv(EnvDebug, "true")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", config.APIURL)
	assert.True(t, config.Debug)
}

func TestLoadConfig_ConfigDirOverride(t *testing.T) {
	_ = setupTempHome(t)
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	writeConfigFile(t, dir, "default_tab: inactive\n")

	got, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, listing.TabInactive, config.Tab())
}

func TestLoadConfig_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"malformed yaml", "api_url: [unclosed\n", "error reading config file"},
		{"relative url", "api_url: propdash.io\n", "invalid api_url"},
		{"ftp url", "api_url: ftp://propdash.io\n", "scheme must be http or https"},
		{"zero request timeout", "request_timeout: 0s\n", "request_timeout must be positive"},
		{"negative cache ttl", "cache_ttl: -1s\n", "cache_ttl cannot be negative"},
		{"unknown policy", "mixed_review_policy: coin-flip\n", "unknown mixed review policy"},
		{"unknown tab", "default_tab: archived\n", "invalid default_tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigFile(t, dir, tt.content)

			_, err := LoadConfigFrom(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	home := setupTempHome(t)

	config := Default()
	config.APIURL = "https://api.example.com"
	config.CacheTTL = time.Minute
	config.MixedReviewPolicy = string(listing.MajorityWins)
	config.Token = "must-not-be-written"

	require.NoError(t, SaveConfig(&config))

	path := filepath.Join(home, ".propdash", "config.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "must-not-be-written")

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", loaded.APIURL)
	assert.Equal(t, time.Minute, loaded.CacheTTL)
	assert.Equal(t, listing.MajorityWins, loaded.Policy())
	assert.Empty(t, loaded.Token)
}

func TestConfigPath(t *testing.T) {
	home := setupTempHome(t)

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".propdash", "config.yaml"), path)
}

func TestConfig_SetAndGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"api_url", "https://api.example.com/", "https://api.example.com"},
		{"api-url", "http://localhost:8080", "http://localhost:8080"},
		{"debug", "true", "true"},
		{"request_timeout", "10s", "10s"},
		{"refresh-timeout", "1m", "1m0s"},
		{"cache_ttl", "0", "0s"},
		{"mixed_review_policy", "majority-wins", "majority-wins"},
		{"default_tab", "Inactive", "inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			config := Default()
			require.NoError(t, config.Set(tt.key, tt.value))

			got, err := config.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_SetRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key    string
		value  string
		errMsg string
	}{
		{"debug", "maybe", "debug must be true or false"},
		{"cache_ttl", "soon", "must be a duration"},
		{"request_timeout", "0s", "request_timeout must be positive"},
		{"api_url", "not a url", "invalid api_url"},
		{"default_tab", "archived", "invalid default_tab"},
		{"token", "abc", "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			config := Default()
			before := config

			err := config.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, before, config, "a rejected value leaves the config untouched")
		})
	}
}

func TestKeys_AreAllGettable(t *testing.T) {
	config := Default()
	for _, key := range Keys() {
		_, err := config.Get(key)
		assert.NoError(t, err, key)
	}
}

func setupTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv(EnvConfigDir, "")
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvDebug, "")
	t.Setenv(EnvToken, "")
	return home
}

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}
