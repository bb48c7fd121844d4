// internal/models/food.go
package models

import (
	"time"
)

// NutrientTotals holds macro and calorie values for one food item or an
// aggregate over several. All fields are non-negative.
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Add returns the elementwise sum of t and o.
func (t NutrientTotals) Add(o NutrientTotals) NutrientTotals {
	return NutrientTotals{
		Calories: t.Calories + o.Calories,
		ProteinG: t.ProteinG + o.ProteinG,
		CarbsG:   t.CarbsG + o.CarbsG,
		FatG:     t.FatG + o.FatG,
	}
}

// MealLabel is one of the four meal slots a food entry can belong to.
type MealLabel string

const (
	MealBreakfast MealLabel = "Breakfast"
	MealLunch     MealLabel = "Lunch"
	MealDinner    MealLabel = "Dinner"
	MealSnack     MealLabel = "Snack"
)

// Valid reports whether m is one of the four meal literals.
func (m MealLabel) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// MealFromHour maps an hour of day to a meal slot. Ranges are half-open:
// Breakfast 05-10, Lunch 11-15, Dinner 16-21, Snack 22-04 (wraps past
// midnight).
func MealFromHour(hour int) MealLabel {
	switch {
	case hour >= 5 && hour < 11:
		return MealBreakfast
	case hour >= 11 && hour < 16:
		return MealLunch
	case hour >= 16 && hour < 22:
		return MealDinner
	default:
		return MealSnack
	}
}

const (
	SourceText  = "text"
	SourceImage = "image"
)

// FoodLogExtractionItem is one food mention as understood by the model,
// before nutrition is finalized. Optional fields stay nil when the model
// omitted them.
type FoodLogExtractionItem struct {
	ItemName    string   `json:"item_name"`
	Qty         *float64 `json:"qty"`
	Unit        *string  `json:"unit"`
	Brand       *string  `json:"brand"`
	SearchQuery string   `json:"search_query"`
	Notes       *string  `json:"notes"`
	Calories    *float64 `json:"calories"`
	ProteinG    *float64 `json:"protein_g"`
	CarbsG      *float64 `json:"carbs_g"`
	FatG        *float64 `json:"fat_g"`
}

// FoodLogExtraction is the structured result of parsing one model
// response. It is immutable after construction.
type FoodLogExtraction struct {
	Meal                  MealLabel               `json:"meal"`
	DatetimeLocal         string                  `json:"datetime_local"`
	Items                 []FoodLogExtractionItem `json:"items"`
	NeedsClarification    bool                    `json:"needs_clarification"`
	ClarificationQuestion *string                 `json:"clarification_question"`
	Confidence            float64                 `json:"confidence"`
}

// FoodItem is one food with finalized nutrition.
type FoodItem struct {
	Name           string         `json:"name"`
	Quantity       float64        `json:"quantity"`
	Unit           string         `json:"unit"`
	NutrientsTotal NutrientTotals `json:"nutrients_total"`
	Source         string         `json:"source"`
	Confidence     float64        `json:"confidence"`
}

// ParseFoodLogResponse is the finalized result of a parse or image
// analysis. Aggregate totals are not a field: they are recomputed from
// the item list via Totals so they can never go stale.
type ParseFoodLogResponse struct {
	Items                 []FoodItem `json:"items"`
	LoggedAtISO           string     `json:"logged_at_iso"`
	MealLabel             string     `json:"meal_label,omitempty"`
	NeedsClarification    bool       `json:"needs_clarification"`
	ClarificationQuestion *string    `json:"clarification_question,omitempty"`
	ConfidenceScore       float64    `json:"confidence_score"`
}

// Totals returns the elementwise sum of all items' nutrient totals.
func (r ParseFoodLogResponse) Totals() NutrientTotals {
	var sum NutrientTotals
	for _, item := range r.Items {
		sum = sum.Add(item.NutrientsTotal)
	}
	return sum
}

// FoodEntry is a persisted food log record.
type FoodEntry struct {
	ID          string         `json:"id"`
	LoggedAt    string         `json:"logged_at"`
	RawText     string         `json:"raw_text"`
	MealLabel   string         `json:"meal_label,omitempty"`
	Items       []FoodItem     `json:"items"`
	Totals      NutrientTotals `json:"totals"`
	ImageBase64 string         `json:"image_base64,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UserGoals holds the daily nutrition targets.
type UserGoals struct {
	Calories  float64   `json:"calories"`
	ProteinG  float64   `json:"protein_g"`
	CarbsG    float64   `json:"carbs_g"`
	FatG      float64   `json:"fat_g"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultGoals are used until the user sets their own.
func DefaultGoals() UserGoals {
	return UserGoals{Calories: 2000, ProteinG: 50, CarbsG: 250, FatG: 65}
}
