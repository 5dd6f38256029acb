// Package nutrition turns raw FDC search results into catalog items.
package nutrition

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"mspro-labs/fdc-seed/internal/models"
)

// FoodData Central nutrient ids.
const (
	NutrientEnergyKcal = 1008
	NutrientProteinG   = 1003
	NutrientFatG       = 1004
	NutrientCarbsG     = 1005
)

// ExtractMacros pulls per-100g macros out of a candidate. The second return
// is false when energy is missing or the record carries no signal at all.
func ExtractMacros(c models.RawCandidate) (models.Macros, bool) {
	byID := make(map[int64]float64, len(c.FoodNutrients))
	for _, n := range c.FoodNutrients {
		id, ok := parseInt(n.NutrientID)
		if !ok {
			continue
		}
		val, ok := parseNumber(n.Value)
		if !ok {
			continue
		}
		byID[id] = val
	}

	energy, ok := byID[NutrientEnergyKcal]
	if !ok {
		return models.Macros{}, false
	}

	m := models.Macros{
		Calories: int(math.RoundToEven(energy)),
		Protein:  byID[NutrientProteinG],
		Carbs:    byID[NutrientCarbsG],
		Fats:     byID[NutrientFatG],
	}
	if m.Calories <= 0 && m.Protein == 0 && m.Carbs == 0 && m.Fats == 0 {
		return models.Macros{}, false
	}
	return m, true
}

// parseInt accepts only JSON integer literals.
func parseInt(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseNumber accepts any JSON number literal, rejecting strings, bools and null.
func parseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// round2 rounds to two decimals on the exact binary value, ties to even.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
