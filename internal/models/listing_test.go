// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawListing_DecodesFlexibleFields(t *testing.T) {
	payload := `[
		{"_id": "64f1a", "title": "Sea View", "price": 1250, "bedrooms": 2, "rating": 4.5},
		{"id": 42, "price": "1,800", "bedrooms": "1", "rating": null},
		{"id": "x", "price": {"amount": 5}, "bedrooms": true}
	]`

	var listings []RawListing
	require.NoError(t, json.Unmarshal([]byte(payload), &listings))
	require.Len(t, listings, 3)

	assert.Equal(t, "64f1a", listings[0].GetIDString())
	assert.Equal(t, 1250.0, listings[0].Price.Or(0))
	assert.Equal(t, 2.0, listings[0].Bedrooms.Or(0))

	assert.Equal(t, "42", listings[1].GetIDString())
	assert.Equal(t, 1800.0, listings[1].Price.Or(0))
	assert.Equal(t, 1.0, listings[1].Bedrooms.Or(0))
	_, ok := listings[1].Rating.Value()
	assert.False(t, ok, "null rating should be absent")

	_, ok = listings[2].Price.Value()
	assert.False(t, ok, "object price should degrade to absent")
	_, ok = listings[2].Bedrooms.Value()
	assert.False(t, ok, "boolean bedrooms should degrade to absent")
}

func TestRawListing_PrefersDocumentID(t *testing.T) {
	r := RawListing{MongoID: NewFlexibleID("doc"), ID: NewFlexibleID("plain")}
	assert.Equal(t, "doc", r.GetIDString())

	r = RawListing{ID: NewFlexibleID("plain")}
	assert.Equal(t, "plain", r.GetIDString())
}

func TestFlexibleNumber_MarshalRoundTripsAbsence(t *testing.T) {
	b, err := json.Marshal(FlexibleNumber{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(NewFlexibleNumber(3))
	require.NoError(t, err)
	assert.Equal(t, "3", string(b))
}
