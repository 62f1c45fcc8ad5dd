// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package domain

// Severity of a user notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// ActionKind is the family a bulk action belongs to
type ActionKind string

const (
	KindActivity ActionKind = "activity"
	KindReviews  ActionKind = "reviews"
)

// Direction of a bulk action
type Direction string

const (
	DirectionActivate   Direction = "activate"
	DirectionInactivate Direction = "inactivate"
	DirectionEnable     Direction = "enable"
	DirectionDisable    Direction = "disable"
)

// Kind returns the family a direction belongs to
func (d Direction) Kind() ActionKind {
	switch d {
	case DirectionActivate, DirectionInactivate:
		return KindActivity
	case DirectionEnable, DirectionDisable:
		return KindReviews
	default:
		return ""
	}
}

// Valid reports whether d is one of the known directions
func (d Direction) Valid() bool {
	return d.Kind() != ""
}

// ParseDirection accepts the canonical names plus a few CLI aliases
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "activate", "active":
		return DirectionActivate, true
	case "inactivate", "deactivate", "inactive":
		return DirectionInactivate, true
	case "enable", "enabled", "on":
		return DirectionEnable, true
	case "disable", "disabled", "off":
		return DirectionDisable, true
	default:
		return "", false
	}
}
