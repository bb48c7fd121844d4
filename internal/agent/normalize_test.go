package agent

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"nutritrack-mcp/internal/models"
)

const sampleJSON = `{
  "meal": "Lunch",
  "datetime_local": "2024-03-01T12:30:00",
  "items": [
    {
      "item_name": "chicken salad",
      "qty": 1,
      "unit": "cup",
      "brand": null,
      "search_query": "chicken salad",
      "notes": null,
      "calories": 350,
      "protein_g": 30,
      "carbs_g": 8,
      "fat_g": 20
    }
  ],
  "needs_clarification": false,
  "clarification_question": null,
  "confidence": 0.9
}`

func TestNormalize_PlainJSON(t *testing.T) {
	t.Parallel()

	ext, err := Normalize(sampleJSON, "2024-03-01T12:00:00")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if ext.Meal != models.MealLunch {
		t.Errorf("meal = %s; want Lunch", ext.Meal)
	}
	if ext.DatetimeLocal != "2024-03-01T12:30:00" {
		t.Errorf("datetime_local = %s; want model-supplied value", ext.DatetimeLocal)
	}
	if len(ext.Items) != 1 {
		t.Fatalf("items = %d; want 1", len(ext.Items))
	}
	if ext.Items[0].ItemName != "chicken salad" {
		t.Errorf("item_name = %q", ext.Items[0].ItemName)
	}
	if ext.Items[0].Calories == nil || *ext.Items[0].Calories != 350 {
		t.Errorf("calories = %v; want 350", ext.Items[0].Calories)
	}
	if ext.Confidence != 0.9 {
		t.Errorf("confidence = %v; want 0.9", ext.Confidence)
	}
}

func TestNormalize_FencedEqualsBare(t *testing.T) {
	t.Parallel()

	bare, err := Normalize(sampleJSON, "2024-03-01T12:00:00")
	if err != nil {
		t.Fatalf("bare: %v", err)
	}

	fenced, err := Normalize("```json\n"+sampleJSON+"\n```", "2024-03-01T12:00:00")
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}

	if !reflect.DeepEqual(bare, fenced) {
		t.Errorf("fenced normalization differs from bare:\nbare:   %+v\nfenced: %+v", bare, fenced)
	}
}

func TestNormalize_ProseAroundFencedJSON(t *testing.T) {
	t.Parallel()

	raw := "Here you go:\n```json\n" + sampleJSON + "\n```\nEnjoy!"
	ext, err := Normalize(raw, "2024-03-01T12:00:00")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if ext.Meal != models.MealLunch || len(ext.Items) != 1 {
		t.Errorf("unexpected extraction: %+v", ext)
	}
}

func TestNormalize_NoJSONFails(t *testing.T) {
	t.Parallel()

	longProse := strings.Repeat("I could not find any food in that text. ", 10)
	_, err := Normalize(longProse, "2024-03-01T12:00:00")

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v; want *MalformedResponseError", err)
	}
	if malformed.Excerpt != longProse[:200] {
		t.Errorf("excerpt = %q; want the first 200 chars of the input", malformed.Excerpt)
	}
}

func TestNormalize_UnparseableSpanFails(t *testing.T) {
	t.Parallel()

	_, err := Normalize(`{"meal": "Lunch", "items": [}`, "2024-03-01T12:00:00")
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v; want *MalformedResponseError", err)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	ext, err := Normalize(`{"items": [{"item_name": "mystery stew"}]}`, "2024-03-01T19:00:00")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if ext.DatetimeLocal != "2024-03-01T19:00:00" {
		t.Errorf("datetime_local = %s; want fallback", ext.DatetimeLocal)
	}
	// 19:00 falls in the dinner window.
	if ext.Meal != models.MealDinner {
		t.Errorf("meal = %s; want Dinner inferred from fallback datetime", ext.Meal)
	}
	if ext.Confidence != defaultConfidence {
		t.Errorf("confidence = %v; want default %v", ext.Confidence, defaultConfidence)
	}
	if ext.NeedsClarification {
		t.Error("needs_clarification defaulted to true")
	}
	if ext.Items[0].SearchQuery != "mystery stew" {
		t.Errorf("search_query = %q; want item_name fallback", ext.Items[0].SearchQuery)
	}
	if ext.Items[0].Qty != nil || ext.Items[0].Calories != nil {
		t.Error("absent optional fields should stay nil")
	}
}

func TestNormalize_InvalidMealCoerced(t *testing.T) {
	t.Parallel()

	ext, err := Normalize(`{"meal": "Brunch", "datetime_local": "2024-03-01T08:15:00", "items": []}`, "2024-03-01T08:00:00")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if ext.Meal != models.MealBreakfast {
		t.Errorf("meal = %s; want Breakfast coerced from 08:15", ext.Meal)
	}
}

func TestNormalize_EmptyItems(t *testing.T) {
	t.Parallel()

	ext, err := Normalize(`{"meal": "Snack", "datetime_local": "2024-03-01T23:00:00", "items": []}`, "")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(ext.Items) != 0 {
		t.Errorf("items = %d; want 0", len(ext.Items))
	}
}

func TestNormalize_ConfidenceClamped(t *testing.T) {
	t.Parallel()

	ext, err := Normalize(`{"meal": "Snack", "datetime_local": "2024-03-01T23:00:00", "items": [], "confidence": 1.7}`, "")
	if err != nil {
		t.Fatal(err)
	}
	if ext.Confidence != 1 {
		t.Errorf("confidence = %v; want clamped to 1", ext.Confidence)
	}

	ext, err = Normalize(`{"meal": "Snack", "datetime_local": "2024-03-01T23:00:00", "items": [], "confidence": -3}`, "")
	if err != nil {
		t.Fatal(err)
	}
	if ext.Confidence != 0 {
		t.Errorf("confidence = %v; want clamped to 0", ext.Confidence)
	}
}

func TestNormalize_UnknownFieldsIgnored(t *testing.T) {
	t.Parallel()

	_, err := Normalize(`{"meal": "Lunch", "datetime_local": "2024-03-01T12:00:00", "items": [], "model_debug": {"tokens": 12}}`, "")
	if err != nil {
		t.Errorf("Normalize rejected unknown fields: %v", err)
	}
}
