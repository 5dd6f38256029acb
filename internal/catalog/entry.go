package catalog

import (
	"bytes"
	"encoding/json"

	"mspro-labs/fdc-seed/internal/models"
)

// Entry is one element of the catalog array. Entries read from disk keep
// their original object bytes so unknown keys and number formats survive a
// rewrite; generated entries carry the FoodItem.
type Entry struct {
	ID   string
	Name string

	raw  json.RawMessage
	item *models.FoodItem
}

// FromItem wraps a generated item.
func FromItem(item models.FoodItem) Entry {
	return Entry{ID: item.ID, Name: item.Name, item: &item}
}

// Entries wraps a list of generated items.
func Entries(items []models.FoodItem) []Entry {
	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = FromItem(it)
	}
	return out
}

// fromRaw wraps a JSON object read from an existing file. It returns false
// for anything that is not an object.
func fromRaw(raw json.RawMessage) (Entry, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Entry{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entry{}, false
	}
	return Entry{
		ID:   looseString(fields["id"]),
		Name: looseString(fields["name"]),
		raw:  append(json.RawMessage(nil), raw...),
	}, true
}

// looseString renders a JSON value as text for keying: strings as-is,
// numbers by their literal, true as "True". Null, false, zero and empty
// values yield "".
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't':
		return "True"
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil || f == 0 {
			return ""
		}
		return string(raw)
	}
	return ""
}

// Item returns the generated FoodItem, or decodes the stored object. The
// second return is false when the stored object does not fit FoodItem.
func (e Entry) Item() (models.FoodItem, bool) {
	if e.item != nil {
		return *e.item, true
	}
	var item models.FoodItem
	if err := json.Unmarshal(e.raw, &item); err != nil {
		return models.FoodItem{}, false
	}
	return item, true
}

// MarshalJSON writes the original object bytes for entries read from disk.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e.item); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
