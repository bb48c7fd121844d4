// internal/agent/resolve.go
package agent

import (
	"nutritrack-mcp/internal/models"
	"nutritrack-mcp/internal/nutrition"
)

// Resolve converts an extraction into the finalized response. Items that
// carry a model-supplied calorie value are trusted as-is (missing macros
// become zero); everything else goes through the fallback estimator. All
// items share the extraction's confidence. Aggregate totals are not set
// here: they come from ParseFoodLogResponse.Totals on demand.
func Resolve(extraction models.FoodLogExtraction) models.ParseFoodLogResponse {
	items := make([]models.FoodItem, 0, len(extraction.Items))

	for _, ext := range extraction.Items {
		qty := 1.0
		if ext.Qty != nil {
			qty = *ext.Qty
		}
		unit := "serving"
		if ext.Unit != nil && *ext.Unit != "" {
			unit = *ext.Unit
		}

		var totals models.NutrientTotals
		if ext.Calories != nil {
			totals = models.NutrientTotals{
				Calories: *ext.Calories,
				ProteinG: floatOrZero(ext.ProteinG),
				CarbsG:   floatOrZero(ext.CarbsG),
				FatG:     floatOrZero(ext.FatG),
			}
		} else {
			totals = nutrition.Estimate(ext.ItemName, qty).Totals
		}

		items = append(items, models.FoodItem{
			Name:           ext.ItemName,
			Quantity:       qty,
			Unit:           unit,
			NutrientsTotal: totals,
			Source:         models.SourceText,
			Confidence:     extraction.Confidence,
		})
	}

	return models.ParseFoodLogResponse{
		Items:                 items,
		LoggedAtISO:           extraction.DatetimeLocal,
		MealLabel:             string(extraction.Meal),
		NeedsClarification:    extraction.NeedsClarification,
		ClarificationQuestion: extraction.ClarificationQuestion,
		ConfidenceScore:       extraction.Confidence,
	}
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
