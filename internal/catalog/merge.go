// Package catalog merges and persists the bundled food library file.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"mspro-labs/fdc-seed/internal/models"
	"mspro-labs/fdc-seed/internal/nutrition"
)

// Mode selects how freshly generated items combine with an existing file.
type Mode string

const (
	// ModeOverwrite discards the existing file.
	ModeOverwrite Mode = "overwrite"
	// ModeAppend keeps existing entries and adds only unseen ids and names.
	ModeAppend Mode = "append"
	// ModeRefresh replaces entries matching by id, then by name, and adds the rest.
	ModeRefresh Mode = "refresh"
)

// Modes lists the accepted mode names in display order.
var Modes = []Mode{ModeOverwrite, ModeAppend, ModeRefresh}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode %q (want overwrite, append or refresh)", s)
}

// Merge combines existing and generated entries under mode. The result is
// sorted by case-insensitive name; ties keep insertion order. Existing
// entries that are kept are returned unchanged.
func Merge(existing, generated []Entry, mode Mode) []Entry {
	if mode == ModeOverwrite {
		out := make([]Entry, len(generated))
		copy(out, generated)
		SortEntries(out)
		return out
	}

	m := newMerger()
	for _, e := range existing {
		m.put(e)
	}
	for _, e := range generated {
		m.offer(e, mode == ModeRefresh)
	}

	SortEntries(m.entries)
	return m.entries
}

// SortByName orders items by lower-cased name, keeping the relative order
// of equal names.
func SortByName(items []models.FoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// SortEntries is SortByName for catalog entries.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

type merger struct {
	entries []Entry
	byID    map[string]int
	byName  map[string]int
}

func newMerger() *merger {
	return &merger{
		entries: []Entry{},
		byID:    make(map[string]int),
		byName:  make(map[string]int),
	}
}

func idKey(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// put seeds an existing entry. Entries without an id are dropped; a repeated
// id replaces the earlier entry in place.
func (m *merger) put(e Entry) {
	id := idKey(e.ID)
	if id == "" {
		return
	}
	if idx, ok := m.byID[id]; ok {
		m.replace(idx, e)
		return
	}
	m.add(e)
}

func (m *merger) offer(e Entry, refresh bool) {
	id := idKey(e.ID)
	if id == "" {
		return
	}

	if idx, ok := m.byID[id]; ok {
		if refresh {
			m.replace(idx, e)
		}
		return
	}

	if name := nutrition.NameKey(e.Name); name != "" {
		if idx, ok := m.byName[name]; ok {
			if refresh {
				m.replace(idx, e)
			}
			return
		}
	}

	m.add(e)
}

func (m *merger) add(e Entry) {
	idx := len(m.entries)
	m.entries = append(m.entries, e)
	m.byID[idKey(e.ID)] = idx
	if name := nutrition.NameKey(e.Name); name != "" {
		m.byName[name] = idx
	}
}

// replace swaps the entry at idx for e and re-keys both indexes.
func (m *merger) replace(idx int, e Entry) {
	old := m.entries[idx]
	if oldID := idKey(old.ID); m.byID[oldID] == idx {
		delete(m.byID, oldID)
	}
	if oldName := nutrition.NameKey(old.Name); oldName != "" && m.byName[oldName] == idx {
		delete(m.byName, oldName)
	}

	m.entries[idx] = e
	m.byID[idKey(e.ID)] = idx
	if name := nutrition.NameKey(e.Name); name != "" {
		m.byName[name] = idx
	}
}
