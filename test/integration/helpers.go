// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/propdash/propdash-cli/internal/api/apitest"
	"github.com/propdash/propdash-cli/internal/models"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// BuildBinary builds the CLI binary once for all tests
func BuildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		binaryPath = filepath.Join(os.TempDir(), "propdash-test")
		if runtime.GOOS == "windows" {
			binaryPath += ".exe"
		}

		cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/propdash")
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("failed to build binary: %v\nOutput: %s", err, output)
		}
	})

	if buildErr != nil {
		t.Fatalf("Failed to build binary: %v", buildErr)
	}
	return binaryPath
}

// CommandResult represents the result of running a command
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// RunCommand executes the CLI with the given environment, stdin and arguments
func RunCommand(t *testing.T, env map[string]string, stdin string, args ...string) *CommandResult {
	t.Helper()

	cmd := exec.Command(BuildBinary(t), args...)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := runWithTimeout(cmd, 30*time.Second)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: time.Since(start),
	}
}

func runWithTimeout(cmd *exec.Cmd, timeout time.Duration) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return fmt.Errorf("command timed out after %v", timeout)
	case err := <-done:
		return err
	}
}

// SetupTestEnv starts a fake backend and returns an environment that
// points the binary at it with an isolated config and cache.
func SetupTestEnv(t *testing.T) (map[string]string, *apitest.Server) {
	t.Helper()

	home := t.TempDir()
	srv := apitest.NewServer(t, []models.RawListing{
		{MongoID: models.NewFlexibleID("lst_0001"), Title: "Harbour View", City: "Porto", IsActive: true, License: true},
		{MongoID: models.NewFlexibleID("lst_0002"), Title: "Olive Grove", City: "Faro", IsActive: false, ReviewEnabled: true, License: true},
	})

	env := map[string]string{
		"HOME":                home,
		"XDG_CACHE_HOME":      filepath.Join(home, ".cache"),
		"PROPDASH_CONFIG_DIR": filepath.Join(home, ".propdash"),
		"PROPDASH_API_URL":    srv.URL,
		"PROPDASH_TOKEN":      apitest.Token,
		"PROPDASH_DEBUG":      "",
		"PROPDASH_ENV":        "",
	}
	return env, srv
}

func AssertExitCode(t *testing.T, result *CommandResult, want int) {
	t.Helper()
	if result.ExitCode != want {
		t.Errorf("exit code = %d, want %d\nstdout: %s\nstderr: %s", result.ExitCode, want, result.Stdout, result.Stderr)
	}
}

func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("output does not contain %q\noutput: %s", expected, output)
	}
}
