// internal/nutrition/estimate.go
package nutrition

import (
	"math"
	"strings"

	"nutritrack-mcp/internal/models"
)

// Result is one nutrition estimate for a food at a given quantity.
// Default is true when the food matched nothing in the knowledge base
// and the generic per-serving ratios were used instead.
type Result struct {
	FoodName string
	Quantity float64
	Totals   models.NutrientTotals
	Unit     string
	Default  bool
}

// Estimate looks up a food by name and scales its per-unit macros by
// quantity, rounding each field to one decimal place. Matching is a
// linear scan over the knowledge base: the first keyword that is a
// substring of the lowercased name wins. Unmatched foods get a fixed
// generic estimate of 100 kcal / 5g protein / 15g carbs / 3g fat per
// unit.
func Estimate(foodName string, quantity float64) Result {
	nameLower := strings.ToLower(foodName)

	for _, entry := range knowledgeBase {
		if strings.Contains(nameLower, entry.Keyword) {
			return Result{
				FoodName: foodName,
				Quantity: quantity,
				Totals: models.NutrientTotals{
					Calories: round1(entry.Calories * quantity),
					ProteinG: round1(entry.ProteinG * quantity),
					CarbsG:   round1(entry.CarbsG * quantity),
					FatG:     round1(entry.FatG * quantity),
				},
				Unit: entry.Unit,
			}
		}
	}

	return Result{
		FoodName: foodName,
		Quantity: quantity,
		Totals: models.NutrientTotals{
			Calories: round1(100 * quantity),
			ProteinG: round1(5 * quantity),
			CarbsG:   round1(15 * quantity),
			FatG:     round1(3 * quantity),
		},
		Unit:    "serving",
		Default: true,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
