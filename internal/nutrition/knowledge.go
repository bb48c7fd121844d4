// internal/nutrition/knowledge.go
package nutrition

// Entry holds per-unit macros for one reference food (one egg, one cup
// of rice, 100g of chicken).
type Entry struct {
	Keyword    string
	Calories   float64
	ProteinG   float64
	CarbsG     float64
	FatG       float64
	Unit       string
	RefWeightG float64
}

// knowledgeBase is scanned top to bottom; the first keyword that is a
// substring of the food name wins. Declaration order is significant:
// "toast" must come before "bread" so "toasted bread" resolves as toast.
// Do not reorder and do not replace this with a map.
var knowledgeBase = []Entry{
	{Keyword: "egg", Calories: 155, ProteinG: 13, CarbsG: 1.1, FatG: 11, Unit: "piece", RefWeightG: 50},
	{Keyword: "toast", Calories: 265, ProteinG: 9, CarbsG: 49, FatG: 3.2, Unit: "slice", RefWeightG: 30},
	{Keyword: "bread", Calories: 265, ProteinG: 9, CarbsG: 49, FatG: 3.2, Unit: "slice", RefWeightG: 30},
	{Keyword: "rice", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3, Unit: "cup", RefWeightG: 158},
	{Keyword: "chicken", Calories: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6, Unit: "100g", RefWeightG: 100},
	{Keyword: "pasta", Calories: 131, ProteinG: 5, CarbsG: 25, FatG: 1.1, Unit: "cup", RefWeightG: 140},
	{Keyword: "salad", Calories: 20, ProteinG: 1.5, CarbsG: 3.5, FatG: 0.2, Unit: "cup", RefWeightG: 100},
	{Keyword: "apple", Calories: 52, ProteinG: 0.3, CarbsG: 14, FatG: 0.2, Unit: "piece", RefWeightG: 182},
	{Keyword: "banana", Calories: 89, ProteinG: 1.1, CarbsG: 23, FatG: 0.3, Unit: "piece", RefWeightG: 118},
	{Keyword: "milk", Calories: 42, ProteinG: 3.4, CarbsG: 5, FatG: 1, Unit: "cup", RefWeightG: 244},
	{Keyword: "coffee", Calories: 2, ProteinG: 0.3, CarbsG: 0, FatG: 0, Unit: "cup", RefWeightG: 240},
	{Keyword: "yogurt", Calories: 59, ProteinG: 10, CarbsG: 3.6, FatG: 0.4, Unit: "cup", RefWeightG: 245},
	{Keyword: "orange", Calories: 47, ProteinG: 0.9, CarbsG: 12, FatG: 0.1, Unit: "piece", RefWeightG: 131},
	{Keyword: "sandwich", Calories: 250, ProteinG: 12, CarbsG: 30, FatG: 10, Unit: "piece", RefWeightG: 150},
	{Keyword: "pizza", Calories: 266, ProteinG: 11, CarbsG: 33, FatG: 10, Unit: "slice", RefWeightG: 107},
	{Keyword: "burger", Calories: 295, ProteinG: 17, CarbsG: 24, FatG: 14, Unit: "piece", RefWeightG: 150},
}
