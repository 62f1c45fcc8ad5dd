// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/propdash/propdash-cli/internal/listing"
	"github.com/propdash/propdash-cli/internal/tui/styles"
	"github.com/propdash/propdash-cli/internal/utils"
)

type Column struct {
	Title    string
	Width    int
	MinWidth int
	Flex     int // weight for distributing extra space; 0 means fixed width
}

// ListingColumns are the dashboard table columns, in render order
func ListingColumns() []Column {
	return []Column{
		{Title: " ", Width: 1},
		{Title: "Title", MinWidth: 20, Flex: 3},
		{Title: "Price", Width: 10},
		{Title: "Rooms", Width: 7},
		{Title: "Location", MinWidth: 14, Flex: 2},
		{Title: "Rating", Width: 6},
		{Title: "Reviews", Width: 7},
		{Title: "License", Width: 7},
	}
}

// ListingTable renders visible listings with a cursor and selection marks
type ListingTable struct {
	columns      []Column
	rows         []listing.ViewModel
	selection    listing.Selection
	selectedRow  int
	height       int
	width        int
	scrollOffset int
}

func NewListingTable() *ListingTable {
	return &ListingTable{
		columns: ListingColumns(),
		height:  20,
		width:   80,
	}
}

// SetRows replaces the rows, keeping the cursor on the same listing when it is still present
func (t *ListingTable) SetRows(rows []listing.ViewModel, selection listing.Selection) {
	currentID := t.CurrentID()
	t.rows = rows
	t.selection = selection

	if currentID != "" {
		for i, vm := range rows {
			if vm.ID == currentID {
				t.selectedRow = i
				t.ensureVisible()
				return
			}
		}
	}
	if t.selectedRow >= len(rows) {
		t.selectedRow = max(len(rows)-1, 0)
	}
	t.ensureVisible()
}

func (t *ListingTable) SetDimensions(width, height int) {
	t.width = width
	t.height = height
	t.calculateColumnWidths()
	t.ensureVisible()
}

func (t *ListingTable) calculateColumnWidths() {
	if t.width == 0 {
		return
	}

	// one space between columns plus the row padding
	availableWidth := t.width - (len(t.columns) - 1) - 2

	totalMinWidth := 0
	totalFlex := 0
	for _, col := range t.columns {
		if col.MinWidth > 0 {
			totalMinWidth += col.MinWidth
		} else if col.Flex == 0 {
			totalMinWidth += col.Width
		}
		totalFlex += col.Flex
	}

	remainingWidth := max(availableWidth-totalMinWidth, 0)

	for i := range t.columns {
		switch {
		case t.columns[i].Flex > 0 && totalFlex > 0:
			t.columns[i].Width = t.columns[i].MinWidth + (remainingWidth*t.columns[i].Flex)/totalFlex
		case t.columns[i].MinWidth > 0:
			t.columns[i].Width = t.columns[i].MinWidth
		}
	}
}

func (t *ListingTable) MoveUp() {
	if t.selectedRow > 0 {
		t.selectedRow--
		t.ensureVisible()
	}
}

func (t *ListingTable) MoveDown() {
	if t.selectedRow < len(t.rows)-1 {
		t.selectedRow++
		t.ensureVisible()
	}
}

func (t *ListingTable) GoToTop() {
	t.selectedRow = 0
	t.scrollOffset = 0
}

func (t *ListingTable) GoToBottom() {
	t.selectedRow = max(len(t.rows)-1, 0)
	t.ensureVisible()
}

// Current returns the listing under the cursor
func (t *ListingTable) Current() (listing.ViewModel, bool) {
	if t.selectedRow < 0 || t.selectedRow >= len(t.rows) {
		return listing.ViewModel{}, false
	}
	return t.rows[t.selectedRow], true
}

func (t *ListingTable) CurrentID() string {
	vm, ok := t.Current()
	if !ok {
		return ""
	}
	return vm.ID
}

func (t *ListingTable) visibleRows() int {
	return max(t.height-2, 1)
}

func (t *ListingTable) ensureVisible() {
	visibleRows := t.visibleRows()
	if t.selectedRow < t.scrollOffset {
		t.scrollOffset = t.selectedRow
	} else if t.selectedRow >= t.scrollOffset+visibleRows {
		t.scrollOffset = t.selectedRow - visibleRows + 1
	}
	if t.scrollOffset < 0 {
		t.scrollOffset = 0
	}
}

func (t *ListingTable) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}

	var s strings.Builder
	s.WriteString(t.renderHeader())
	s.WriteString("\n")

	if len(t.rows) == 0 {
		emptyMsg := styles.HelpStyle.Render("No listings match")
		s.WriteString(lipgloss.Place(t.width, 3, lipgloss.Center, lipgloss.Center, emptyMsg))
		return s.String()
	}

	endRow := min(t.scrollOffset+t.visibleRows(), len(t.rows))
	for i := t.scrollOffset; i < endRow; i++ {
		s.WriteString(t.renderRow(i))
		if i < endRow-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (t *ListingTable) renderHeader() string {
	cells := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		cells = append(cells, utils.PadRight(col.Title, col.Width))
	}
	return styles.TableHeaderStyle.Render(strings.Join(cells, " "))
}

func (t *ListingTable) cells(vm listing.ViewModel) []string {
	mark := " "
	if t.selection.Contains(vm.ID) {
		mark = "●"
	}
	return []string{
		mark,
		vm.Title,
		vm.Price,
		vm.Rooms,
		vm.Location,
		fmt.Sprintf("%.1f", vm.Rating),
		styles.Check(vm.ReviewEnabled),
		styles.Check(vm.License),
	}
}

func (t *ListingTable) renderRow(index int) string {
	row := t.cells(t.rows[index])
	cells := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		cells = append(cells, utils.PadRight(row[i], col.Width))
	}
	content := strings.Join(cells, " ")

	if index == t.selectedRow {
		return styles.TableSelectedRowStyle.Render(content)
	}
	if t.selection.Contains(t.rows[index].ID) {
		return styles.TableRowStyle.Inherit(styles.MarkStyle).Render(content)
	}
	return styles.TableRowStyle.Render(content)
}

// Position reports the cursor as "3/17"
func (t *ListingTable) Position() string {
	if len(t.rows) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", t.selectedRow+1, len(t.rows))
}
