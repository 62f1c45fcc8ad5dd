// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package bulk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdash/propdash-cli/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlan_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "plan.yaml",
			content: `
title: Spring cleanup
actions:
  - kind: activity
    direction: deactivate
    ids: [lst_1, lst_2]
  - direction: enable
    ids:
      - lst_3
`,
		},
		{
			name: "json",
			file: "plan.json",
			content: `{"title": "Spring cleanup", "actions": [
				{"kind": "activity", "direction": "inactivate", "ids": ["lst_1", "lst_2"]},
				{"kind": "reviews", "direction": "enable", "ids": ["lst_3"]}
			]}`,
		},
		{
			name: "jsonl",
			file: "plan.jsonl",
			content: `{"kind": "activity", "direction": "inactivate", "ids": ["lst_1", "lst_2"]}

{"direction": "ENABLE", "ids": ["lst_3"]}
`,
		},
		{
			name: "markdown",
			file: "plan.md",
			content: `---
title: Spring cleanup
actions:
  - kind: activity
    direction: inactivate
    ids: [lst_1, lst_2]
  - kind: reviews
    direction: on
    ids: [lst_3]
---
Owners asked to pause these until the renovation is done.
`,
		},
		{
			name:    "unknown extension falls back to yaml",
			file:    "plan.txt",
			content: "actions:\n  - {direction: inactivate, ids: [lst_1, lst_2]}\n  - {direction: enable, ids: [lst_3]}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := LoadPlan([]string{writeFile(t, tt.file, tt.content)})
			require.NoError(t, err)
			require.Len(t, plan.Actions, 2)

			assert.Equal(t, domain.KindActivity, plan.Actions[0].Kind)
			assert.Equal(t, domain.DirectionInactivate, plan.Actions[0].Direction)
			assert.Equal(t, []string{"lst_1", "lst_2"}, plan.Actions[0].IDs)

			assert.Equal(t, domain.KindReviews, plan.Actions[1].Kind)
			assert.Equal(t, domain.DirectionEnable, plan.Actions[1].Direction)
			assert.Equal(t, []string{"lst_3"}, plan.Actions[1].IDs)
			assert.NotEmpty(t, plan.Title)
		})
	}
}

func TestLoadPlan_MarkdownNotes(t *testing.T) {
	path := writeFile(t, "plan.md", "---\nactions:\n  - {direction: activate, ids: [a]}\n---\n\nReopen for summer.\n")

	plan, err := LoadPlan([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "Reopen for summer.", plan.Notes)
}

func TestLoadPlan_MarkdownWithoutFrontMatter(t *testing.T) {
	path := writeFile(t, "plan.md", "# just notes\n")

	_, err := LoadPlan([]string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front matter")
}

func TestLoadPlan_CombinesFiles(t *testing.T) {
	first := writeFile(t, "a.yaml", "title: First\nactions:\n  - {direction: activate, ids: [a]}\n")
	second := writeFile(t, "b.json", `{"title": "Second", "actions": [{"direction": "disable", "ids": ["b"]}]}`)

	plan, err := LoadPlan([]string{first, second})
	require.NoError(t, err)

	assert.Equal(t, "First", plan.Title)
	assert.Equal(t, []string{first, second}, plan.Sources)
	require.Len(t, plan.Actions, 2)
	assert.Equal(t, domain.DirectionActivate, plan.Actions[0].Direction)
	assert.Equal(t, domain.DirectionDisable, plan.Actions[1].Direction)
}

func TestLoadPlan_DefaultTitle(t *testing.T) {
	path := writeFile(t, "plan.yaml", "actions:\n  - {direction: activate, ids: [a]}\n")

	plan, err := LoadPlan([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "Plan of 1 actions", plan.Title)
}

func TestLoadPlan_Errors(t *testing.T) {
	_, err := LoadPlan(nil)
	assert.EqualError(t, err, "no files specified")

	_, err = LoadPlan([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	bad := writeFile(t, "plan.json", "{not json")
	_, err = LoadPlan([]string{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")

	badLine := writeFile(t, "plan.jsonl", "{\"direction\": \"enable\", \"ids\": [\"a\"]}\nnope\n")
	_, err = LoadPlan([]string{badLine})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSONL line 2")
}

func TestValidate(t *testing.T) {
	manyIDs := make([]string, MaxIDsPerAction+1)
	for i := range manyIDs {
		manyIDs[i] = fmt.Sprintf("lst_%d", i)
	}

	tests := []struct {
		name   string
		plan   Plan
		errMsg string
	}{
		{"no actions", Plan{}, "plan has no actions"},
		{"unknown kind", Plan{Actions: []Action{{Kind: "pricing", Direction: "enable", IDs: []string{"a"}}}}, `unknown kind "pricing"`},
		{"unknown direction", Plan{Actions: []Action{{Direction: "archive", IDs: []string{"a"}}}}, `unknown direction "archive"`},
		{"mismatched pair", Plan{Actions: []Action{{Kind: domain.KindActivity, Direction: "enable", IDs: []string{"a"}}}}, "does not apply to activity actions"},
		{"empty ids", Plan{Actions: []Action{{Direction: "activate"}}}, "no ids listed"},
		{"blank id", Plan{Actions: []Action{{Direction: "activate", IDs: []string{"a", " "}}}}, "blank entries"},
		{"too many ids", Plan{Actions: []Action{{Direction: "activate", IDs: manyIDs}}}, "too many ids"},
		{"too many actions", Plan{Actions: make([]Action, MaxActions+1)}, "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_ErrorNamesAction(t *testing.T) {
	plan := Plan{Actions: []Action{
		{Direction: "activate", IDs: []string{"a"}},
		{Direction: "sideways", IDs: []string{"b"}},
	}}
	err := plan.Validate()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "action 2:"))
}

func TestValidate_DedupesIDs(t *testing.T) {
	plan := Plan{Actions: []Action{{Direction: "activate", IDs: []string{"a", " b ", "a", "b"}}}}
	require.NoError(t, plan.Validate())
	assert.Equal(t, []string{"a", "b"}, plan.Actions[0].IDs)
}

func TestMarshal_RendersNormalizedPlan(t *testing.T) {
	plan, err := ParsePlan([]byte("actions:\n  - {direction: deactivate, ids: [a]}\n"), "yaml")
	require.NoError(t, err)

	out, err := plan.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: activity")
	assert.Contains(t, string(out), "direction: inactivate")
}

func TestHighlight(t *testing.T) {
	src := "actions:\n  - direction: enable\n"
	out := Highlight(src)
	assert.Contains(t, out, "\x1b[", "output carries terminal color codes")
	assert.Contains(t, out, "direction")
}
