package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mspro-labs/fdc-seed/internal/models"
)

func candidate(t *testing.T, raw string) models.RawCandidate {
	t.Helper()
	var c models.RawCandidate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return c
}

func TestExtractMacros(t *testing.T) {
	testCases := []struct {
		name   string
		raw    string
		ok     bool
		expect models.Macros
	}{
		{
			name: "full record",
			raw: `{"fdcId": 1, "description": "Apples, raw", "foodNutrients": [
				{"nutrientId": 1008, "value": 52.4},
				{"nutrientId": 1003, "value": 0.26},
				{"nutrientId": 1005, "value": 13.8},
				{"nutrientId": 1004, "value": 0.17}]}`,
			ok:     true,
			expect: models.Macros{Calories: 52, Protein: 0.26, Carbs: 13.8, Fats: 0.17},
		},
		{
			name: "missing energy",
			raw: `{"fdcId": 1, "foodNutrients": [
				{"nutrientId": 1003, "value": 20},
				{"nutrientId": 1005, "value": 5}]}`,
			ok: false,
		},
		{
			name:   "energy only, others default to zero",
			raw:    `{"fdcId": 1, "foodNutrients": [{"nutrientId": 1008, "value": 884}]}`,
			ok:     true,
			expect: models.Macros{Calories: 884},
		},
		{
			name: "all zero",
			raw: `{"fdcId": 1, "foodNutrients": [
				{"nutrientId": 1008, "value": 0},
				{"nutrientId": 1003, "value": 0}]}`,
			ok: false,
		},
		{
			name: "zero energy but protein present",
			raw: `{"fdcId": 1, "foodNutrients": [
				{"nutrientId": 1008, "value": 0},
				{"nutrientId": 1003, "value": 1.5}]}`,
			ok:     true,
			expect: models.Macros{Protein: 1.5},
		},
		{
			name: "non-numeric values are ignored",
			raw: `{"fdcId": 1, "foodNutrients": [
				{"nutrientId": "1008", "value": 100},
				{"nutrientId": 1008.5, "value": 100},
				{"nutrientId": 1003, "value": "12"}]}`,
			ok: false,
		},
		{
			name: "last duplicate wins",
			raw: `{"fdcId": 1, "foodNutrients": [
				{"nutrientId": 1008, "value": 10},
				{"nutrientId": 1008, "value": 20}]}`,
			ok:     true,
			expect: models.Macros{Calories: 20},
		},
		{
			name:   "calories round half to even",
			raw:    `{"fdcId": 1, "foodNutrients": [{"nutrientId": 1008, "value": 52.5}]}`,
			ok:     true,
			expect: models.Macros{Calories: 52},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractMacros(candidate(t, tc.raw))
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.expect {
				t.Errorf("expected %+v, got %+v", tc.expect, got)
			}
		})
	}
}

func TestStableID(t *testing.T) {
	a := StableID(171688)
	if a != StableID(171688) {
		t.Fatalf("StableID is not deterministic")
	}
	if a != strings.ToUpper(a) {
		t.Errorf("expected upper-case id, got %s", a)
	}
	u, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("StableID is not a UUID: %v", err)
	}
	if u.Version() != 5 {
		t.Errorf("expected version 5, got %d", u.Version())
	}

	seen := make(map[string]int64)
	for i := int64(0); i < 500; i++ {
		id := StableID(i)
		if prev, dup := seen[id]; dup {
			t.Fatalf("collision between %d and %d", prev, i)
		}
		seen[id] = i
	}
}

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Apples, raw", "Apples, Raw"},
		{"  chicken   breast\t roasted ", "Chicken Breast Roasted"},
		{"WHOLE MILK", "Whole Milk"},
		{"   ", ""},
	}
	for _, tc := range testCases {
		got := NormalizeName(tc.input)
		if got != tc.expected {
			t.Errorf("NormalizeName(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
		if again := NormalizeName(got); again != got {
			t.Errorf("NormalizeName not idempotent: %q -> %q", got, again)
		}
	}
}

func TestBuildItem(t *testing.T) {
	c := candidate(t, `{"fdcId": 171688, "description": "  apples,   raw ", "foodNutrients": [
		{"nutrientId": 1008, "value": 52},
		{"nutrientId": 1003, "value": 0.2611},
		{"nutrientId": 1005, "value": 13.8},
		{"nutrientId": 1004, "value": 0.17}]}`)

	item, ok := BuildItem(c)
	if !ok {
		t.Fatalf("expected buildable item")
	}
	want := models.FoodItem{
		ID:            StableID(171688),
		Name:          "Apples, Raw",
		WeightInGrams: 100,
		Servings:      1,
		Calories:      52,
		Protein:       0.26,
		Carbs:         13.8,
		Fats:          0.17,
		ServingUnit:   "g",
	}
	if item != want {
		t.Errorf("expected %+v, got %+v", want, item)
	}
}

func TestBuildItemRejects(t *testing.T) {
	energy := `[{"nutrientId": 1008, "value": 50}]`
	testCases := map[string]string{
		"string id":  `{"fdcId": "12", "description": "x", "foodNutrients": ` + energy + `}`,
		"float id":   `{"fdcId": 12.5, "description": "x", "foodNutrients": ` + energy + `}`,
		"missing id": `{"description": "x", "foodNutrients": ` + energy + `}`,
		"blank name": `{"fdcId": 12, "description": "   ", "foodNutrients": ` + energy + `}`,
		"no macros":  `{"fdcId": 12, "description": "x", "foodNutrients": []}`,
	}
	for name, raw := range testCases {
		if _, ok := BuildItem(candidate(t, raw)); ok {
			t.Errorf("%s: expected unbuildable", name)
		}
	}
}

func TestBuildItemLowercaseFallback(t *testing.T) {
	c := candidate(t, `{"fdcId": 5, "lowercaseDescription": "banana raw",
		"foodNutrients": [{"nutrientId": 1008, "value": 89}]}`)
	item, ok := BuildItem(c)
	if !ok || item.Name != "Banana Raw" {
		t.Errorf("expected fallback name 'Banana Raw', got %q (ok=%v)", item.Name, ok)
	}
}

func food(id int, name string, kcal float64) string {
	return fmt.Sprintf(`{"fdcId": %d, "description": %q, "foodNutrients": [{"nutrientId": 1008, "value": %g}]}`, id, name, kcal)
}

func TestPickerSkipsUnusableAndDuplicates(t *testing.T) {
	p := NewPicker()

	first, err := p.Pick([]models.RawCandidate{
		candidate(t, `{"fdcId": 1, "description": "no energy", "foodNutrients": []}`),
		candidate(t, food(2, "apples, raw", 52)),
		candidate(t, food(3, "apples, dried", 243)),
	})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if first.Name != "Apples, Raw" {
		t.Errorf("expected 'Apples, Raw', got %q", first.Name)
	}

	second, err := p.Pick([]models.RawCandidate{
		candidate(t, food(9, "APPLES, RAW", 50)),
		candidate(t, food(3, "apples, dried", 243)),
	})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if second.Name != "Apples, Dried" {
		t.Errorf("expected duplicate name to be skipped, got %q", second.Name)
	}

	_, err = p.Pick([]models.RawCandidate{candidate(t, food(10, "apples raw", 0))})
	if !errors.Is(err, ErrNoUsableCandidate) {
		t.Errorf("expected ErrNoUsableCandidate, got %v", err)
	}
	if p.Accepted() != 2 {
		t.Errorf("expected 2 accepted names, got %d", p.Accepted())
	}
}
