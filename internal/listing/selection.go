// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package listing

import "sort"

// Selection tracks which listings are selected and whether selection mode is on.
// It is a value type; every mutator returns the next state.
type Selection struct {
	IsSelectionMode bool
	selected        map[string]struct{}
}

// Toggle flips id's membership. It does not enter selection mode.
func (s Selection) Toggle(id string) Selection {
	next := s.clone()
	if _, ok := next.selected[id]; ok {
		delete(next.selected, id)
	} else {
		next.selected[id] = struct{}{}
	}
	return next
}

// Select adds every id in ids
func (s Selection) Select(ids ...string) Selection {
	next := s.clone()
	for _, id := range ids {
		next.selected[id] = struct{}{}
	}
	return next
}

// EnterSelectionMode turns selection mode on, clearing the set if the mode changed.
func (s Selection) EnterSelectionMode() Selection {
	if s.IsSelectionMode {
		return s
	}
	return Selection{IsSelectionMode: true}
}

// ExitSelectionMode turns selection mode off, clearing the set if the mode changed.
func (s Selection) ExitSelectionMode() Selection {
	if !s.IsSelectionMode {
		return s
	}
	return Selection{}
}

// Clear empties the set and keeps the mode
func (s Selection) Clear() Selection {
	return Selection{IsSelectionMode: s.IsSelectionMode}
}

func (s Selection) Contains(id string) bool {
	_, ok := s.selected[id]
	return ok
}

func (s Selection) Len() int {
	return len(s.selected)
}

// IDs returns the selected ids sorted
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the selected listings in visible order.
// Ids that are not in visible (stale after a tab switch or refresh) are ignored.
func (s Selection) Resolve(visible []ViewModel) []ViewModel {
	if len(s.selected) == 0 {
		return nil
	}
	out := make([]ViewModel, 0, len(s.selected))
	for _, vm := range visible {
		if s.Contains(vm.ID) {
			out = append(out, vm)
		}
	}
	return out
}

func (s Selection) clone() Selection {
	next := Selection{
		IsSelectionMode: s.IsSelectionMode,
		selected:        make(map[string]struct{}, len(s.selected)+1),
	}
	for id := range s.selected {
		next.selected[id] = struct{}{}
	}
	return next
}

// ActiveOverlay is the single per-row menu that may be open at a time.
type ActiveOverlay struct {
	id   string
	open bool
}

// Toggle opens the overlay for id, or closes it if id's overlay is already open.
func (o *ActiveOverlay) Toggle(id string) {
	if o.open && o.id == id {
		o.Close()
		return
	}
	o.id, o.open = id, true
}

// Close closes whatever overlay is open
func (o *ActiveOverlay) Close() {
	o.id, o.open = "", false
}

// Active returns the id whose overlay is open
func (o ActiveOverlay) Active() (string, bool) {
	return o.id, o.open
}
