// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bulk loads bulk action plans and applies them through the dashboard controller.
package bulk

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/propdash/propdash-cli/internal/domain"
)

const (
	MaxActions      = 40
	MaxIDsPerAction = 100
)

// Action is one step of a plan as written in the file
type Action struct {
	Kind      domain.ActionKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Direction domain.Direction  `json:"direction" yaml:"direction"`
	IDs       []string          `json:"ids" yaml:"ids"`
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s (%d)", a.Kind, a.Direction, len(a.IDs))
}

// Plan is an ordered list of actions
type Plan struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Actions []Action `json:"actions" yaml:"actions"`

	// Notes holds the body of a markdown plan
	Notes string `json:"-" yaml:"-"`
	// Sources lists the files the plan was read from
	Sources []string `json:"-" yaml:"-"`
}

// LoadPlan reads and validates one or more plan files.
// Actions from several files are concatenated in argument order.
func LoadPlan(paths []string) (*Plan, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files specified")
	}

	combined := &Plan{}
	var notes []string
	for _, path := range paths {
		p, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		if combined.Title == "" {
			combined.Title = p.Title
		}
		if p.Notes != "" {
			notes = append(notes, p.Notes)
		}
		combined.Actions = append(combined.Actions, p.Actions...)
		combined.Sources = append(combined.Sources, path)
	}
	combined.Notes = strings.Join(notes, "\n\n")

	if combined.Title == "" {
		combined.Title = fmt.Sprintf("Plan of %d actions", len(combined.Actions))
	}

	if err := combined.Validate(); err != nil {
		return nil, err
	}
	return combined, nil
}

// ParsePlan decodes content in the given format ("yaml", "json", "jsonl" or "markdown")
// and validates it.
func ParsePlan(content []byte, format string) (*Plan, error) {
	p, err := decode(content, format)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseFile(path string) (*Plan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	p, err := decode(content, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// FormatFor maps a file extension to a plan format
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".md", ".markdown":
		return "markdown"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

func decode(content []byte, format string) (*Plan, error) {
	var plan Plan

	switch format {
	case "json":
		if err := json.Unmarshal(content, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(content, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case "jsonl":
		return decodeJSONL(content)
	case "markdown":
		return decodeMarkdown(content)
	case "":
		// Unknown extension: JSON is valid YAML, so try the stricter one first
		if err := json.Unmarshal(content, &plan); err != nil {
			if err := yaml.Unmarshal(content, &plan); err != nil {
				return nil, fmt.Errorf("not valid JSON or YAML")
			}
		}
	default:
		return nil, fmt.Errorf("unsupported plan format %q", format)
	}

	return &plan, nil
}

// decodeJSONL reads one action per line
func decodeJSONL(content []byte) (*Plan, error) {
	var plan Plan
	scanner := bufio.NewScanner(bytes.NewReader(content))
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var action Action
		if err := json.Unmarshal([]byte(text), &action); err != nil {
			return nil, fmt.Errorf("failed to parse JSONL line %d: %w", line, err)
		}
		plan.Actions = append(plan.Actions, action)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading JSONL: %w", err)
	}
	return &plan, nil
}

// decodeMarkdown takes the plan from the front matter; the body becomes Notes
func decodeMarkdown(content []byte) (*Plan, error) {
	var plan Plan
	rest, err := frontmatter.MustParse(bytes.NewReader(content), &plan)
	if err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	plan.Notes = strings.TrimSpace(string(rest))
	return &plan, nil
}

// Validate normalizes directions and kinds in place and rejects
// unknown pairs, empty id lists and oversized actions.
func (p *Plan) Validate() error {
	if len(p.Actions) == 0 {
		return fmt.Errorf("plan has no actions")
	}
	if len(p.Actions) > MaxActions {
		return fmt.Errorf("plan exceeds maximum of %d actions (got %d)", MaxActions, len(p.Actions))
	}

	for i := range p.Actions {
		if err := p.Actions[i].normalize(); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
	}
	return nil
}

func (a *Action) normalize() error {
	direction, ok := domain.ParseDirection(strings.ToLower(strings.TrimSpace(string(a.Direction))))
	if !ok {
		return fmt.Errorf("unknown direction %q", a.Direction)
	}

	kind := domain.ActionKind(strings.ToLower(strings.TrimSpace(string(a.Kind))))
	switch kind {
	case "":
		kind = direction.Kind()
	case domain.KindActivity, domain.KindReviews:
		if direction.Kind() != kind {
			return fmt.Errorf("direction %q does not apply to %s actions", direction, kind)
		}
	default:
		return fmt.Errorf("unknown kind %q (want %s or %s)", a.Kind, domain.KindActivity, domain.KindReviews)
	}

	ids := make([]string, 0, len(a.IDs))
	seen := make(map[string]struct{}, len(a.IDs))
	for _, id := range a.IDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("ids cannot contain blank entries")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return fmt.Errorf("no ids listed")
	}
	if len(ids) > MaxIDsPerAction {
		return fmt.Errorf("too many ids: maximum is %d per action (got %d)", MaxIDsPerAction, len(ids))
	}

	a.Kind, a.Direction, a.IDs = kind, direction, ids
	return nil
}

// Marshal renders the normalized plan as YAML
func (p *Plan) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
