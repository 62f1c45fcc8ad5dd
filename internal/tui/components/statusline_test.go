// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/propdash/propdash-cli/internal/domain"
	"github.com/propdash/propdash-cli/internal/listing"
)

func TestStatusLine_NotificationExpires(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStatusLine().SetWidth(80).SetHelp("? help")
	s.now = func() time.Time { return now }

	s.Notify("Activated 2 listings", domain.SeveritySuccess)
	assert.True(t, s.HasActiveMessage())
	assert.Contains(t, s.Render(), "Activated 2 listings")

	now = now.Add(DefaultMessageDuration + time.Second)
	assert.False(t, s.HasActiveMessage())
	assert.Empty(t, s.Message())
	assert.Contains(t, s.Render(), "? help")
}

func TestStatusLine_RenderFitsWidth(t *testing.T) {
	s := NewStatusLine().
		SetWidth(40).
		SetLeft("ACTIVE 1/200 with a very long suffix").
		SetRight("updated 3 minutes ago and counting")

	assert.LessOrEqual(t, lipgloss.Width(s.Render()), 40)
	assert.Empty(t, NewStatusLine().Render(), "zero width renders nothing")
}

func TestListingTable_KeepsCursorOnSameListing(t *testing.T) {
	tbl := NewListingTable()
	tbl.SetDimensions(100, 10)

	rows := []listing.ViewModel{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}
	tbl.SetRows(rows, listing.Selection{})
	tbl.MoveDown()
	tbl.MoveDown()
	assert.Equal(t, "c", tbl.CurrentID())

	tbl.SetRows([]listing.ViewModel{rows[2], rows[0]}, listing.Selection{})
	assert.Equal(t, "c", tbl.CurrentID())
	assert.Equal(t, "1/2", tbl.Position())

	tbl.SetRows(rows[:1], listing.Selection{})
	assert.Equal(t, "a", tbl.CurrentID())
}

func TestListingTable_EmptyAndMarks(t *testing.T) {
	tbl := NewListingTable()
	tbl.SetDimensions(100, 10)

	tbl.SetRows(nil, listing.Selection{})
	assert.Contains(t, tbl.View(), "No listings match")
	assert.Equal(t, "0/0", tbl.Position())
	_, ok := tbl.Current()
	assert.False(t, ok)

	sel := listing.Selection{}.EnterSelectionMode().Toggle("b")
	tbl.SetRows([]listing.ViewModel{{ID: "a", Title: "Alpha"}, {ID: "b", Title: "Bravo"}}, sel)
	assert.Contains(t, tbl.View(), "●")
}
