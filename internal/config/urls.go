// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"net/url"
	"os"
	"strings"
)

const defaultWebURL = "https://app.propdash.io"

// URLs are the web dashboard pages the CLI links to
type URLs struct {
	BaseURL      string
	DashboardURL string
	TokensURL    string
}

// GetURLs derives web URLs from the API URL in use
func GetURLs(apiURL string) *URLs {
	base := webBaseURL(apiURL)
	return &URLs{
		BaseURL:      base,
		DashboardURL: base + "/dashboard/listings",
		TokensURL:    base + "/settings/sessions",
	}
}

// ListingURL links to a single listing's page in the web dashboard
func (u *URLs) ListingURL(id string) string {
	return u.DashboardURL + "/" + url.PathEscape(id)
}

func webBaseURL(apiURL string) string {
	if os.Getenv(EnvEnvironment) == "dev" {
		return "http://localhost:3000"
	}
	if apiURL == "" {
		return defaultWebURL
	}

	if strings.Contains(apiURL, "localhost") || strings.Contains(apiURL, "127.0.0.1") {
		if strings.Contains(apiURL, ":8080") {
			return "http://localhost:3000"
		}
		return strings.TrimRight(apiURL, "/")
	}

	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return defaultWebURL
	}
	// api.example.com serves the dashboard from app.example.com
	if host, ok := strings.CutPrefix(u.Hostname(), "api."); ok {
		return u.Scheme + "://app." + host
	}
	return u.Scheme + "://" + u.Host
}
