// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleID handles the backend's id field, which can be a string or a number
type FlexibleID struct {
	value string
}

// NewFlexibleID wraps a string id
func NewFlexibleID(id string) FlexibleID {
	return FlexibleID{value: id}
}

// UnmarshalJSON accepts strings and numbers; anything else decodes as empty
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.value = s
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		f.value = n.String()
		return nil
	}

	f.value = ""
	return nil
}

// MarshalJSON always emits the id as a string
func (f FlexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value)
}

func (f FlexibleID) String() string {
	return f.value
}

// FlexibleNumber decodes numbers that may arrive as JSON numbers or numeric strings.
// Malformed values decode as absent instead of failing the whole payload.
type FlexibleNumber struct {
	value float64
	valid bool
}

// NewFlexibleNumber wraps a known value
func NewFlexibleNumber(v float64) FlexibleNumber {
	return FlexibleNumber{value: v, valid: true}
}

func (f *FlexibleNumber) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.value, f.valid = 0, false
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value, f.valid = n, true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			f.value, f.valid = parsed, true
			return nil
		}
	}

	f.value, f.valid = 0, false
	return nil
}

func (f FlexibleNumber) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// Value returns the number and whether it was present
func (f FlexibleNumber) Value() (float64, bool) {
	return f.value, f.valid
}

// Or returns the number, or def when absent
func (f FlexibleNumber) Or(def float64) float64 {
	if !f.valid {
		return def
	}
	return f.value
}

// RawListing is a listing record as the backend returns it.
// Every field is optional; projection supplies the defaults.
type RawListing struct {
	MongoID       FlexibleID     `json:"_id"`
	ID            FlexibleID     `json:"id"`
	Title         string         `json:"title,omitempty"`
	UnitNo        string         `json:"unitNo,omitempty"`
	Price         FlexibleNumber `json:"price"`
	Currency      string         `json:"currency,omitempty"`
	Bedrooms      FlexibleNumber `json:"bedrooms"`
	City          string         `json:"city,omitempty"`
	Country       string         `json:"country,omitempty"`
	Rating        FlexibleNumber `json:"rating"`
	ReviewEnabled bool           `json:"reviewEnabled"`
	License       bool           `json:"license"`
	IsActive      bool           `json:"isActive"`
	CoverPhoto    string         `json:"coverPhoto,omitempty"`
	Photos        []string       `json:"photos,omitempty"`
}

// GetIDString prefers the document id and falls back to the plain id
func (r RawListing) GetIDString() string {
	if id := r.MongoID.String(); id != "" {
		return id
	}
	return r.ID.String()
}

// UserInfo is the account behind the current session token
type UserInfo struct {
	ID    FlexibleID `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name,omitempty"`
	Role  string     `json:"role,omitempty"`
}
