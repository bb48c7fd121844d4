// internal/agent/normalize.go
package agent

import (
	"encoding/json"
	"strings"
	"time"

	"nutritrack-mcp/internal/models"
)

const (
	defaultConfidence = 0.8
	excerptLen        = 200
)

// rawExtraction mirrors the JSON the model is instructed to produce.
// Optional fields are pointers so absence is distinguishable from zero;
// unknown fields are ignored by encoding/json.
type rawExtraction struct {
	Meal                  string                         `json:"meal"`
	DatetimeLocal         string                         `json:"datetime_local"`
	Items                 []models.FoodLogExtractionItem `json:"items"`
	NeedsClarification    bool                           `json:"needs_clarification"`
	ClarificationQuestion *string                        `json:"clarification_question"`
	Confidence            *float64                       `json:"confidence"`
}

// Normalize parses a raw model completion into a FoodLogExtraction. The
// completion is expected to hold a single JSON object, possibly wrapped
// in code fences or surrounded by prose: fences are stripped and the
// span from the first "{" to the last "}" is taken as the payload.
// Missing optional fields are defaulted; a missing or invalid meal is
// inferred from the effective datetime's hour, and a missing
// datetime_local falls back to fallbackDatetime. Returns
// *MalformedResponseError when no JSON object can be located or parsed.
func Normalize(rawText, fallbackDatetime string) (models.FoodLogExtraction, error) {
	text := stripCodeFences(rawText)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return models.FoodLogExtraction{}, &MalformedResponseError{Excerpt: excerpt(rawText)}
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return models.FoodLogExtraction{}, &MalformedResponseError{Excerpt: excerpt(rawText)}
	}

	datetimeLocal := raw.DatetimeLocal
	if datetimeLocal == "" {
		datetimeLocal = fallbackDatetime
	}

	// Coerce rather than reject: a junk meal label in an otherwise valid
	// payload takes the same path as a missing one.
	meal := models.MealLabel(raw.Meal)
	if !meal.Valid() {
		meal = models.MealFromHour(hourOf(datetimeLocal))
	}

	confidence := defaultConfidence
	if raw.Confidence != nil {
		confidence = clamp01(*raw.Confidence)
	}

	items := make([]models.FoodLogExtractionItem, 0, len(raw.Items))
	for _, item := range raw.Items {
		if item.ItemName == "" {
			item.ItemName = "Unknown"
		}
		if item.SearchQuery == "" {
			item.SearchQuery = item.ItemName
		}
		items = append(items, item)
	}

	return models.FoodLogExtraction{
		Meal:                  meal,
		DatetimeLocal:         datetimeLocal,
		Items:                 items,
		NeedsClarification:    raw.NeedsClarification,
		ClarificationQuestion: raw.ClarificationQuestion,
		Confidence:            confidence,
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func excerpt(s string) string {
	if len(s) > excerptLen {
		return s[:excerptLen]
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// hourOf extracts the hour from an ISO-8601 datetime, with or without a
// zone offset. Unparseable input falls back to the current hour.
func hourOf(datetime string) int {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, datetime); err == nil {
			return t.Hour()
		}
	}
	return time.Now().Hour()
}
