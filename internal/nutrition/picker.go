package nutrition

import (
	"errors"

	"mspro-labs/fdc-seed/internal/models"
)

// ErrNoUsableCandidate is returned when no candidate for a query survives
// extraction, building and name dedup.
var ErrNoUsableCandidate = errors.New("no usable candidate")

// Picker selects one item per query and remembers accepted names for the
// rest of the run.
type Picker struct {
	seen map[string]struct{}
}

// NewPicker returns a Picker with no accepted names.
func NewPicker() *Picker {
	return &Picker{seen: make(map[string]struct{})}
}

// Pick scans candidates in order and accepts the first buildable one whose
// name has not been accepted earlier in the run.
func (p *Picker) Pick(candidates []models.RawCandidate) (models.FoodItem, error) {
	for _, c := range candidates {
		item, ok := BuildItem(c)
		if !ok {
			continue
		}
		key := NameKey(item.Name)
		if _, dup := p.seen[key]; dup {
			continue
		}
		p.seen[key] = struct{}{}
		return item, nil
	}
	return models.FoodItem{}, ErrNoUsableCandidate
}

// Accepted reports how many distinct names have been picked.
func (p *Picker) Accepted() int {
	return len(p.seen)
}
