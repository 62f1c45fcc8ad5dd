// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/propdash/propdash-cli/internal/api/apitest"
	"github.com/propdash/propdash-cli/internal/bulk"
	"github.com/propdash/propdash-cli/internal/config"
	"github.com/propdash/propdash-cli/internal/errors"
	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/models"
)

func testListings() []models.RawListing {
	mk := func(id, title string, active, reviews bool) models.RawListing {
		return models.RawListing{
			MongoID:       models.NewFlexibleID(id),
			Title:         title,
			City:          "Lisbon",
			Country:       "Portugal",
			Currency:      "EUR",
			IsActive:      active,
			ReviewEnabled: reviews,
			License:       true,
		}
	}
	return []models.RawListing{
		mk("lst_0001", "Sunny Loft", true, false),
		mk("lst_0002", "Quiet Villa", true, true),
		mk("lst_0003", "Rustic Cottage", false, false),
	}
}

// setupCLI points the CLI at a fake backend with an isolated config and cache
func setupCLI(t *testing.T) *apitest.Server {
	t.Helper()
	keyring.MockInit()

	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(config.EnvDebug, "")
	t.Setenv(config.EnvEnvironment, "")

	srv := apitest.NewServer(t, testListings())
	t.Setenv(config.EnvAPIURL, srv.URL)
	t.Setenv(config.EnvToken, apitest.Token)
	return srv
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func stubPicker(t *testing.T, fn func([]listing.ViewModel, string) ([]string, error)) {
	t.Helper()
	orig := pickListings
	pickListings = fn
	t.Cleanup(func() { pickListings = orig })
}

func activeOf(srv *apitest.Server) map[string]bool {
	out := map[string]bool{}
	for _, l := range srv.Listings() {
		out[l.GetIDString()] = l.IsActive
	}
	return out
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"busy", transitionFailure(&errors.ActionInProgressError{Family: "status"}), exitBusy},
		{"rejected", transitionFailure(&errors.ServerRejectedError{Action: "status update", Message: "locked"}), exitRejected},
		{"network", transitionFailure(&errors.NetworkError{Err: assert.AnError}), exitFailure},
		{"unreported", assert.AnError, exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestErrorHint(t *testing.T) {
	assert.Contains(t, errorHint(errors.ErrNoAuthToken), "propdash login")
	assert.Contains(t, errorHint(&errors.APIError{StatusCode: 404, Message: "listing not found"}), "propdash listings")
	assert.Contains(t, errorHint(&errors.NetworkError{Err: assert.AnError}), "internet connection")
	assert.Empty(t, errorHint(assert.AnError))
}

func TestRootCommand_VersionFlag(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "propdash version")
}

func TestRootCommand_HasExpectedCommands(t *testing.T) {
	expected := []string{
		"version", "login", "logout", "whoami", "config", "listings",
		"activate", "deactivate", "reviews", "bulk", "tui", "completion", "docs",
	}

	seen := map[string]int{}
	for _, cmd := range NewRootCommand().Commands() {
		seen[cmd.Name()]++
	}

	for _, name := range expected {
		assert.Equal(t, 1, seen[name], "command %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Version:")
}

func TestListingsCommand_Table(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "listings")

	require.NoError(t, err)
	assert.Contains(t, out, "Sunny Loft")
	assert.Contains(t, out, "Quiet Villa")
	assert.NotContains(t, out, "Rustic Cottage")
	assert.Contains(t, out, "2 active listings")
}

func TestListingsCommand_JSONWithFilters(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "listings", "--tab", "inactive", "--json")
	require.NoError(t, err)

	var got []listing.ViewModel
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "lst_0003", got[0].ID)

	out, err = runCLI(t, "", "listings", "--reviews", "enabled", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "lst_0002", got[0].ID)
}

func TestListingsCommand_NoMatches(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "listings", "--search", "penthouse")

	require.NoError(t, err)
	assert.Contains(t, out, "No listings match")
}

func TestListingsCommand_InvalidFlags(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "listings", "--reviews", "sometimes")
	assert.Error(t, err)

	_, err = runCLI(t, "", "listings", "--tab", "archived")
	assert.Error(t, err)
}

func TestListingsCommand_NoTokenMakesNoRequest(t *testing.T) {
	srv := setupCLI(t)
	t.Setenv(config.EnvToken, "")

	_, err := runCLI(t, "", "listings")

	require.Error(t, err)
	assert.True(t, errors.IsNoAuthToken(err))
	assert.Empty(t, srv.Requests())
}

func TestActivateCommand(t *testing.T) {
	srv := setupCLI(t)

	out, err := runCLI(t, "", "activate", "lst_0003")

	require.NoError(t, err)
	assert.Contains(t, out, "Activated 1 listing")
	assert.True(t, activeOf(srv)["lst_0003"])
}

func TestDeactivateCommand_ReportsUnknownIDs(t *testing.T) {
	srv := setupCLI(t)

	out, err := runCLI(t, "", "deactivate", "lst_0001", "lst_001")

	require.NoError(t, err)
	assert.Contains(t, out, `Unknown listing "lst_001"`)
	assert.Contains(t, out, "did you mean lst_0001")
	assert.Contains(t, out, "Deactivated 1 listing")
	assert.False(t, activeOf(srv)["lst_0001"])

	reqs := srv.RequestsTo("/api/v1/listings/status")
	require.Len(t, reqs, 1)
	assert.NotContains(t, reqs[0].Body, "lst_001\"")
}

func TestDeactivateCommand_AllUnknown(t *testing.T) {
	srv := setupCLI(t)

	_, err := runCLI(t, "", "deactivate", "nope_1", "nope_2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the given listings exist")
	assert.Empty(t, srv.RequestsTo("/api/v1/listings/status"))
}

func TestActivateCommand_ServerRejection(t *testing.T) {
	srv := setupCLI(t)
	srv.SetStatusResponse(200, `{"success":false,"message":"Listing is locked"}`)

	out, err := runCLI(t, "", "activate", "lst_0003")

	require.Error(t, err)
	var reported *reportedError
	assert.True(t, stderrors.As(err, &reported), "rejection was already printed")
	assert.Equal(t, exitRejected, exitCode(err))
	assert.Contains(t, out, "Listing is locked")
	assert.False(t, activeOf(srv)["lst_0003"])
}

func TestDeactivateCommand_EmptyReplyIsSuccess(t *testing.T) {
	srv := setupCLI(t)
	srv.SetStatusResponse(200, `{}`)

	out, err := runCLI(t, "", "deactivate", "lst_0001")

	require.NoError(t, err)
	assert.Contains(t, out, "Deactivated 1 listing")
	assert.NotContains(t, out, "empty response")
}

func TestActivateCommand_PicksInteractively(t *testing.T) {
	srv := setupCLI(t)

	var offered []string
	stubPicker(t, func(candidates []listing.ViewModel, _ string) ([]string, error) {
		for _, vm := range candidates {
			offered = append(offered, vm.ID)
		}
		return []string{"lst_0003"}, nil
	})

	_, err := runCLI(t, "", "activate")

	require.NoError(t, err)
	assert.Equal(t, []string{"lst_0003"}, offered, "only inactive listings are offered")
	assert.True(t, activeOf(srv)["lst_0003"])
}

func TestReviewsEnable_SkipsListingsAlreadyOn(t *testing.T) {
	srv := setupCLI(t)

	out, err := runCLI(t, "", "reviews", "enable", "lst_0001", "lst_0002")

	require.NoError(t, err)
	assert.Contains(t, out, "Enabled reviews for 1 listing")

	reqs := srv.RequestsTo("/api/v1/listings/reviews")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Body, "lst_0001")
	assert.NotContains(t, reqs[0].Body, "lst_0002")
}

func TestReviewsDisable_NothingToUpdate(t *testing.T) {
	srv := setupCLI(t)

	out, err := runCLI(t, "", "reviews", "disable", "lst_0003")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to update")
	assert.Empty(t, srv.RequestsTo("/api/v1/listings/reviews"))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBulkApply(t *testing.T) {
	srv := setupCLI(t)
	plan := writeFile(t, "plan.yaml", `title: Tidy up
actions:
  - direction: inactivate
    ids: [lst_0001]
  - kind: reviews
    direction: enable
    ids: [lst_0002, lst_0003]
`)

	out, err := runCLI(t, "", "bulk", "apply", "-f", plan)

	require.NoError(t, err)
	assert.Contains(t, out, "Tidy up")
	assert.Contains(t, out, "2 applied, 0 skipped, 0 failed, 0 not run")
	assert.False(t, activeOf(srv)["lst_0001"])

	reqs := srv.RequestsTo("/api/v1/listings/reviews")
	require.Len(t, reqs, 1)
	assert.NotContains(t, reqs[0].Body, "lst_0002", "already enabled")
}

func TestBulkApply_StopsOnFailure(t *testing.T) {
	srv := setupCLI(t)
	srv.SetStatusResponse(500, `{"success":false,"message":"boom"}`)
	plan := writeFile(t, "plan.json", `{"actions":[
		{"direction":"activate","ids":["lst_0003"]},
		{"direction":"enable","ids":["lst_0001"]}
	]}`)

	out, err := runCLI(t, "", "bulk", "apply", "-f", plan)

	require.Error(t, err)
	assert.Contains(t, out, "0 applied, 0 skipped, 1 failed, 1 not run")
	assert.Empty(t, srv.RequestsTo("/api/v1/listings/reviews"))
}

func TestBulkApply_DryRun(t *testing.T) {
	srv := setupCLI(t)
	plan := writeFile(t, "plan.md", `---
actions:
  - direction: deactivate
    ids: [lst_0001]
---
Winter closures.
`)

	out, err := runCLI(t, "", "bulk", "apply", "--dry-run", "-f", plan)

	require.NoError(t, err)
	assert.Contains(t, out, "Plan valid")
	assert.Contains(t, out, "Winter closures.")
	assert.Empty(t, srv.Requests())
}

func TestBulkApply_InvalidPlan(t *testing.T) {
	setupCLI(t)
	plan := writeFile(t, "plan.yaml", "actions:\n  - kind: pricing\n    direction: enable\n    ids: [a]\n")

	_, err := runCLI(t, "", "bulk", "apply", "-f", plan)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestBulkExample_RoundTrips(t *testing.T) {
	setupCLI(t)

	for _, format := range []string{"yaml", "json", "jsonl", "markdown"} {
		t.Run(format, func(t *testing.T) {
			out, err := runCLI(t, "", "bulk", "example", "--format", format)
			require.NoError(t, err)

			plan, err := bulk.ParsePlan([]byte(out), format)
			require.NoError(t, err)
			require.NoError(t, plan.Validate())
			assert.Len(t, plan.Actions, 2)
		})
	}

	_, err := runCLI(t, "", "bulk", "example", "--format", "toml")
	assert.Error(t, err)
}

func TestBulkExample_WritesFileByExtension(t *testing.T) {
	setupCLI(t)
	path := filepath.Join(t.TempDir(), "plan.jsonl")

	_, err := runCLI(t, "", "bulk", "example", "-o", path)
	require.NoError(t, err)

	plan, err := bulk.LoadPlan([]string{path})
	require.NoError(t, err)
	assert.Len(t, plan.Actions, 2)
}

func TestConfigSetAndGet(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "config", "set", "default-tab", "inactive")
	require.NoError(t, err)
	assert.Contains(t, out, "inactive")

	out, err = runCLI(t, "", "config", "get", "default_tab")
	require.NoError(t, err)
	assert.Equal(t, "inactive\n", out)

	out, err = runCLI(t, "", "listings", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "lst_0003", "default tab comes from config")

	out, err = runCLI(t, "", "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "mixed_review_policy: enable-wins")
}

func TestConfigSet_RejectsBadValues(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "config", "set", "cache_ttl", "soon")
	assert.Error(t, err)

	_, err = runCLI(t, "", "config", "set", "colour", "blue")
	assert.Error(t, err)
}

func TestLoginLogout(t *testing.T) {
	setupCLI(t)
	t.Setenv(config.EnvToken, "")

	out, err := runCLI(t, "", "login", "Bearer "+apitest.Token)
	require.NoError(t, err)
	assert.Contains(t, out, "validated and stored")
	assert.Contains(t, out, "host@example.com")

	token, err := config.NewTokenStore().GetToken()
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, token)

	out, err = runCLI(t, "n\n", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logout cancelled.")

	_, err = runCLI(t, "", "logout", "--yes")
	require.NoError(t, err)
	_, err = config.NewTokenStore().GetToken()
	assert.True(t, errors.IsNoAuthToken(err))
}

func TestLogin_RejectsBadToken(t *testing.T) {
	setupCLI(t)
	t.Setenv(config.EnvToken, "")

	_, err := runCLI(t, "", "login", "pd_wrong_token_value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session token")

	_, err = runCLI(t, "", "login", "short")
	assert.Error(t, err)

	_, err = config.NewTokenStore().GetToken()
	assert.True(t, errors.IsNoAuthToken(err))
}

func TestWhoami(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, "Environment variable")
	assert.Contains(t, out, "host@example.com")
	assert.NotContains(t, out, apitest.Token)
}

func TestWhoami_NotSignedIn(t *testing.T) {
	setupCLI(t)
	t.Setenv(config.EnvToken, "")

	out, err := runCLI(t, "", "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestCompletionCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "completion", "bash")

	require.NoError(t, err)
	assert.Contains(t, out, "propdash")
}
