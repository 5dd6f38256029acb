package nutrition

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mspro-labs/fdc-seed/internal/models"
)

const (
	weightInGrams = 100
	servings      = 1
	servingUnit   = "g"
)

// StableID derives the catalog id for an FDC record. Re-running against the
// same record always yields the same id, so catalogs can be merged by id.
func StableID(fdcID int64) string {
	u := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("usda-fdc:%d", fdcID)))
	return strings.ToUpper(u.String())
}

// CollapseSpace trims s and folds internal whitespace runs to one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName collapses whitespace and title-cases the result.
func NormalizeName(s string) string {
	s = CollapseSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}

// NameKey is the case-insensitive form used for duplicate detection.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildItem converts a candidate into a catalog item. It returns false when
// the candidate has no integer id, no name, or no usable macros.
func BuildItem(c models.RawCandidate) (models.FoodItem, bool) {
	fdcID, ok := parseInt(c.FdcID)
	if !ok {
		return models.FoodItem{}, false
	}

	raw := c.Description
	if raw == "" {
		raw = c.LowercaseDescription
	}
	name := NormalizeName(raw)
	if name == "" {
		return models.FoodItem{}, false
	}

	m, ok := ExtractMacros(c)
	if !ok {
		return models.FoodItem{}, false
	}

	return models.FoodItem{
		ID:            StableID(fdcID),
		Name:          name,
		WeightInGrams: weightInGrams,
		Servings:      servings,
		Calories:      m.Calories,
		Protein:       round2(m.Protein),
		Carbs:         round2(m.Carbs),
		Fats:          round2(m.Fats),
		ServingUnit:   servingUnit,
	}, true
}
