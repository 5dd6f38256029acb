package models

import "encoding/json"

// RawNutrient is a single nutrient observation on a search result.
// Fields are kept raw so callers can tell integers, floats and junk apart.
type RawNutrient struct {
	NutrientID json.RawMessage `json:"nutrientId"`
	Value      json.RawMessage `json:"value"`
}

// RawCandidate is one food record as returned by the FDC search endpoint.
type RawCandidate struct {
	FdcID                json.RawMessage `json:"fdcId"`
	Description          string          `json:"description"`
	LowercaseDescription string          `json:"lowercaseDescription"`
	DataType             string          `json:"dataType"`
	FoodNutrients        []RawNutrient   `json:"foodNutrients"`
}

// SearchResponse is the envelope of a foods/search call.
type SearchResponse struct {
	TotalHits int            `json:"totalHits"`
	Foods     []RawCandidate `json:"foods"`
}

// Macros holds per-100g macro values extracted from a candidate.
type Macros struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fats     float64
}

// FoodItem is the record stored in the bundled catalog file.
// Field order matches the JSON layout the app decodes.
type FoodItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	WeightInGrams int     `json:"weightInGrams"`
	Servings      int     `json:"servings"`
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbs         float64 `json:"carbs"`
	Fats          float64 `json:"fats"`
	ServingUnit   string  `json:"servingUnit"`
}
