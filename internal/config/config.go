// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/propdash/propdash-cli/internal/listing"
)

const (
	configDirName  = ".propdash"
	configFileName = "config"
	configFileType = "yaml"
)

type Config struct {
	APIURL            string        `mapstructure:"api_url"`
	Debug             bool          `mapstructure:"debug"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RefreshTimeout    time.Duration `mapstructure:"refresh_timeout"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	MixedReviewPolicy string        `mapstructure:"mixed_review_policy"`
	DefaultTab        string        `mapstructure:"default_tab"`

	// Token is resolved from secure storage, never from the config file
	Token string `mapstructure:"-"`
}

var defaultConfig = Config{
	APIURL:            "https://api.propdash.io",
	Debug:             false,
	RequestTimeout:    30 * time.Second,
	RefreshTimeout:    30 * time.Second,
	CacheTTL:          15 * time.Second,
	MixedReviewPolicy: string(listing.EnableWins),
	DefaultTab:        string(listing.TabActive),
}

// Default returns the built-in configuration
func Default() Config {
	return defaultConfig
}

// Keys lists the settable configuration keys
func Keys() []string {
	keys := []string{
		"api_url", "debug", "request_timeout", "refresh_timeout",
		"cache_ttl", "mixed_review_policy", "default_tab",
	}
	sort.Strings(keys)
	return keys
}

// ConfigDir returns the directory holding config.yaml and the encrypted token
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// ConfigPath returns the path of config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName+"."+configFileType), nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	v.SetEnvPrefix("PROPDASH")
	v.AutomaticEnv()

	v.SetDefault("api_url", defaultConfig.APIURL)
	v.SetDefault("debug", defaultConfig.Debug)
	v.SetDefault("request_timeout", defaultConfig.RequestTimeout)
	v.SetDefault("refresh_timeout", defaultConfig.RefreshTimeout)
	v.SetDefault("cache_ttl", defaultConfig.CacheTTL)
	v.SetDefault("mixed_review_policy", defaultConfig.MixedReviewPolicy)
	v.SetDefault("default_tab", defaultConfig.DefaultTab)
	return v
}

// LoadConfig reads ~/.propdash/config.yaml and PROPDASH_* variables
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(dir)
}

// LoadConfigFrom reads config.yaml from dir. A missing file is not an error.
func LoadConfigFrom(dir string) (*Config, error) {
	v := newViper(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.APIURL == "" {
		config.APIURL = defaultConfig.APIURL
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values a config file or environment may have set badly
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an absolute http(s) URL", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_url %q: scheme must be http or https", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("refresh_timeout must be positive, got %s", c.RefreshTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative, got %s", c.CacheTTL)
	}
	if _, err := listing.ParseMixedReviewPolicy(c.MixedReviewPolicy); err != nil {
		return err
	}
	if _, err := listing.ParseTab(c.DefaultTab); err != nil {
		return fmt.Errorf("invalid default_tab: %w", err)
	}
	return nil
}

// Policy returns the parsed mixed-review policy
func (c *Config) Policy() listing.MixedReviewPolicy {
	p, _ := listing.ParseMixedReviewPolicy(c.MixedReviewPolicy)
	return p
}

// Tab returns the parsed default tab
func (c *Config) Tab() listing.Tab {
	t, _ := listing.ParseTab(c.DefaultTab)
	return t
}

// Get returns the effective value of key as a string
func (c *Config) Get(key string) (string, error) {
	switch normalizeKey(key) {
	case "api_url":
		return c.APIURL, nil
	case "debug":
		return strconv.FormatBool(c.Debug), nil
	case "request_timeout":
		return c.RequestTimeout.String(), nil
	case "refresh_timeout":
		return c.RefreshTimeout.String(), nil
	case "cache_ttl":
		return c.CacheTTL.String(), nil
	case "mixed_review_policy":
		return c.MixedReviewPolicy, nil
	case "default_tab":
		return c.DefaultTab, nil
	default:
		return "", unknownKeyError(key)
	}
}

// Set parses value into key
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	next := *c

	switch normalizeKey(key) {
	case "api_url":
		next.APIURL = strings.TrimRight(value, "/")
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug must be true or false, got %q", value)
		}
		next.Debug = b
	case "request_timeout", "refresh_timeout", "cache_ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s must be a duration like 30s, got %q", normalizeKey(key), value)
		}
		switch normalizeKey(key) {
		case "request_timeout":
			next.RequestTimeout = d
		case "refresh_timeout":
			next.RefreshTimeout = d
		default:
			next.CacheTTL = d
		}
	case "mixed_review_policy":
		next.MixedReviewPolicy = value
	case "default_tab":
		next.DefaultTab = strings.ToLower(value)
	default:
		return unknownKeyError(key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// SaveConfig writes the config to ~/.propdash/config.yaml
func SaveConfig(config *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(dir, config)
}

// SaveConfigTo writes config.yaml into dir
func SaveConfigTo(dir string, config *Config) error {
	v := viper.New()
	v.Set("api_url", config.APIURL)
	v.Set("debug", config.Debug)
	v.Set("request_timeout", config.RequestTimeout.String())
	v.Set("refresh_timeout", config.RefreshTimeout.String())
	v.Set("cache_ttl", config.CacheTTL.String())
	v.Set("mixed_review_policy", config.MixedReviewPolicy)
	v.Set("default_tab", config.DefaultTab)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(dir, configFileName+"."+configFileType)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
}
