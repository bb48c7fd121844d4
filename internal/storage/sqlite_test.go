package storage

import (
	"path/filepath"
	"testing"
	"time"

	"nutritrack-mcp/internal/models"
)

func mustOpenStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntry(id, loggedAt string) *models.FoodEntry {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.FoodEntry{
		ID:        id,
		LoggedAt:  loggedAt,
		RawText:   "2 eggs and toast",
		MealLabel: "Breakfast",
		Items: []models.FoodItem{
			{Name: "egg", Quantity: 2, Unit: "piece", NutrientsTotal: models.NutrientTotals{Calories: 310, ProteinG: 26, CarbsG: 2.2, FatG: 22}, Source: "text", Confidence: 0.9},
			{Name: "toast", Quantity: 1, Unit: "slice", NutrientsTotal: models.NutrientTotals{Calories: 265, ProteinG: 9, CarbsG: 49, FatG: 3.2}, Source: "text", Confidence: 0.9},
		},
		Totals:    models.NutrientTotals{Calories: 575, ProteinG: 35, CarbsG: 51.2, FatG: 25.2},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndGetEntry(t *testing.T) {
	t.Parallel()

	s := mustOpenStorage(t)
	entry := sampleEntry("entry_1", "2024-03-01T08:00:00")

	if err := s.SaveEntry(entry); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	got, err := s.GetEntry("entry_1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got == nil {
		t.Fatal("GetEntry returned nil for a saved entry")
	}
	if got.RawText != entry.RawText {
		t.Errorf("raw_text = %q; want %q", got.RawText, entry.RawText)
	}
	if got.MealLabel != "Breakfast" {
		t.Errorf("meal_label = %q; want Breakfast", got.MealLabel)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d; want 2", len(got.Items))
	}
	if got.Items[0].Name != "egg" || got.Items[1].Name != "toast" {
		t.Errorf("item order not preserved: %q, %q", got.Items[0].Name, got.Items[1].Name)
	}
	if got.Totals != entry.Totals {
		t.Errorf("totals = %+v; want %+v", got.Totals, entry.Totals)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("created_at = %v; want %v", got.CreatedAt, entry.CreatedAt)
	}
}

func TestGetEntry_Missing(t *testing.T) {
	t.Parallel()

	s := mustOpenStorage(t)
	got, err := s.GetEntry("nope")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got != nil {
		t.Errorf("GetEntry(nope) = %+v; want nil", got)
	}
}

func TestListEntries_DateRangeAndLimit(t *testing.T) {
	t.Parallel()

	s := mustOpenStorage(t)
	for i, loggedAt := range []string{"2024-03-01T08:00:00", "2024-03-02T12:00:00", "2024-03-03T19:00:00"} {
		entry := sampleEntry("entry_"+string(rune('a'+i)), loggedAt)
		if err := s.SaveEntry(entry); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}
	}

	entries, err := s.ListEntries("2024-03-02", "2024-03-03", 10)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d; want 2", len(entries))
	}
	// Most recent first.
	if entries[0].LoggedAt != "2024-03-03T19:00:00" {
		t.Errorf("first entry logged_at = %s; want most recent", entries[0].LoggedAt)
	}

	limited, err := s.ListEntries("", "", 1)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited entries = %d; want 1", len(limited))
	}
}

func TestDeleteEntry(t *testing.T) {
	t.Parallel()

	s := mustOpenStorage(t)
	if err := s.SaveEntry(sampleEntry("entry_1", "2024-03-01T08:00:00")); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	deleted, err := s.DeleteEntry("entry_1")
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if !deleted {
		t.Error("DeleteEntry = false; want true")
	}

	deleted, err = s.DeleteEntry("entry_1")
	if err != nil {
		t.Fatalf("DeleteEntry second: %v", err)
	}
	if deleted {
		t.Error("DeleteEntry on missing entry = true; want false")
	}

	got, err := s.GetEntry("entry_1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got != nil {
		t.Error("entry still present after delete")
	}
}

func TestDailySummary(t *testing.T) {
	t.Parallel()

	s := mustOpenStorage(t)
	if err := s.SaveEntry(sampleEntry("entry_1", "2024-03-01T08:00:00")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveEntry(sampleEntry("entry_2", "2024-03-01T12:30:00")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveEntry(sampleEntry("entry_3", "2024-03-02T08:00:00")); err != nil {
		t.Fatal(err)
	}

	totals, count, err := s.DailySummary("2024-03-01")
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d; want 2", count)
	}
	if totals.Calories != 1150 {
		t.Errorf("calories = %v; want 1150", totals.Calories)
	}

	totals, count, err = s.DailySummary("2024-03-05")
	if err != nil {
		t.Fatalf("DailySummary empty day: %v", err)
	}
	if count != 0 || totals != (models.NutrientTotals{}) {
		t.Errorf("empty day = %d entries, %+v; want 0 and zeros", count, totals)
	}
}

func TestGoals_DefaultAndUpsert(t *testing.T) {
	t.Parallel()

	s := mustOpenStorage(t)

	goals, err := s.GetGoals()
	if err != nil {
		t.Fatalf("GetGoals: %v", err)
	}
	if goals.Calories != 2000 || goals.ProteinG != 50 || goals.CarbsG != 250 || goals.FatG != 65 {
		t.Errorf("default goals = %+v", goals)
	}

	set, err := s.SetGoals(models.UserGoals{Calories: 1800, ProteinG: 120, CarbsG: 150, FatG: 60})
	if err != nil {
		t.Fatalf("SetGoals: %v", err)
	}
	if set.UpdatedAt.IsZero() {
		t.Error("SetGoals did not stamp updated_at")
	}

	goals, err = s.GetGoals()
	if err != nil {
		t.Fatalf("GetGoals after set: %v", err)
	}
	if goals.Calories != 1800 || goals.ProteinG != 120 {
		t.Errorf("goals after set = %+v", goals)
	}

	// Second set overwrites the single row.
	if _, err := s.SetGoals(models.UserGoals{Calories: 2200, ProteinG: 100, CarbsG: 200, FatG: 70}); err != nil {
		t.Fatalf("SetGoals second: %v", err)
	}
	goals, err = s.GetGoals()
	if err != nil {
		t.Fatal(err)
	}
	if goals.Calories != 2200 {
		t.Errorf("goals.calories = %v; want 2200", goals.Calories)
	}
}
