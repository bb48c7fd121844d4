// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"nutritrack-mcp/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS food_entries (
        id TEXT PRIMARY KEY,
        logged_at TEXT NOT NULL,
        raw_text TEXT NOT NULL,
        meal_label TEXT,
        image_base64 TEXT,
        total_calories REAL NOT NULL,
        total_protein_g REAL NOT NULL,
        total_carbs_g REAL NOT NULL,
        total_fat_g REAL NOT NULL,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS food_items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        entry_id TEXT NOT NULL,
        name TEXT NOT NULL,
        quantity REAL NOT NULL,
        unit TEXT NOT NULL,
        calories REAL NOT NULL,
        protein_g REAL NOT NULL,
        carbs_g REAL NOT NULL,
        fat_g REAL NOT NULL,
        source TEXT NOT NULL,
        confidence REAL NOT NULL,
        FOREIGN KEY (entry_id) REFERENCES food_entries(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS user_goals (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        calories REAL NOT NULL,
        protein_g REAL NOT NULL,
        carbs_g REAL NOT NULL,
        fat_g REAL NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_food_entries_logged_at ON food_entries(logged_at);
    CREATE INDEX IF NOT EXISTS idx_food_items_entry_id ON food_items(entry_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) SaveEntry(entry *models.FoodEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	entryQuery := `
        INSERT INTO food_entries (id, logged_at, raw_text, meal_label, image_base64,
            total_calories, total_protein_g, total_carbs_g, total_fat_g, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = tx.Exec(entryQuery,
		entry.ID, entry.LoggedAt, entry.RawText, entry.MealLabel, entry.ImageBase64,
		entry.Totals.Calories, entry.Totals.ProteinG, entry.Totals.CarbsG, entry.Totals.FatG,
		entry.CreatedAt.Format(time.RFC3339), entry.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	itemQuery := `
        INSERT INTO food_items (entry_id, name, quantity, unit, calories, protein_g, carbs_g, fat_g, source, confidence)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, item := range entry.Items {
		_, err = tx.Exec(itemQuery,
			entry.ID, item.Name, item.Quantity, item.Unit,
			item.NutrientsTotal.Calories, item.NutrientsTotal.ProteinG,
			item.NutrientsTotal.CarbsG, item.NutrientsTotal.FatG,
			item.Source, item.Confidence)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) ListEntries(startDate, endDate string, limit int) ([]*models.FoodEntry, error) {
	query := `
        SELECT id, logged_at, raw_text, meal_label, image_base64,
            total_calories, total_protein_g, total_carbs_g, total_fat_g, created_at, updated_at
        FROM food_entries
        WHERE 1=1
    `
	args := []interface{}{}

	if startDate != "" {
		query += " AND DATE(logged_at) >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND DATE(logged_at) <= ?"
		args = append(args, endDate)
	}

	query += " ORDER BY logged_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if err := s.loadItemsForEntry(entry); err != nil {
			return nil, fmt.Errorf("failed to load items for entry %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *SQLiteStorage) GetEntry(id string) (*models.FoodEntry, error) {
	row := s.db.QueryRow(`
        SELECT id, logged_at, raw_text, meal_label, image_base64,
            total_calories, total_protein_g, total_carbs_g, total_fat_g, created_at, updated_at
        FROM food_entries WHERE id = ?
    `, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItemsForEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to load items for entry %s: %w", entry.ID, err)
	}
	return entry, nil
}

// DeleteEntry removes an entry and its items. Returns false when no
// entry had the given id.
func (s *SQLiteStorage) DeleteEntry(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM food_items WHERE entry_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete items: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM food_entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, tx.Commit()
}

// DailySummary sums entry totals for one calendar date (YYYY-MM-DD) and
// returns the number of entries that day.
func (s *SQLiteStorage) DailySummary(date string) (models.NutrientTotals, int, error) {
	row := s.db.QueryRow(`
        SELECT COUNT(*),
            COALESCE(SUM(total_calories), 0),
            COALESCE(SUM(total_protein_g), 0),
            COALESCE(SUM(total_carbs_g), 0),
            COALESCE(SUM(total_fat_g), 0)
        FROM food_entries
        WHERE DATE(logged_at) = ?
    `, date)

	var totals models.NutrientTotals
	var count int
	if err := row.Scan(&count, &totals.Calories, &totals.ProteinG, &totals.CarbsG, &totals.FatG); err != nil {
		return models.NutrientTotals{}, 0, fmt.Errorf("failed to query daily summary: %w", err)
	}
	return totals, count, nil
}

// GetGoals returns the stored goals, or the defaults when none were set.
func (s *SQLiteStorage) GetGoals() (models.UserGoals, error) {
	row := s.db.QueryRow(`SELECT calories, protein_g, carbs_g, fat_g, updated_at FROM user_goals WHERE id = 1`)

	var goals models.UserGoals
	var updatedAt string
	err := row.Scan(&goals.Calories, &goals.ProteinG, &goals.CarbsG, &goals.FatG, &updatedAt)
	if err == sql.ErrNoRows {
		return models.DefaultGoals(), nil
	}
	if err != nil {
		return models.UserGoals{}, fmt.Errorf("failed to query goals: %w", err)
	}
	if goals.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return models.UserGoals{}, fmt.Errorf("failed to parse goals updated_at: %w", err)
	}
	return goals, nil
}

func (s *SQLiteStorage) SetGoals(goals models.UserGoals) (models.UserGoals, error) {
	goals.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := s.db.Exec(`
        INSERT INTO user_goals (id, calories, protein_g, carbs_g, fat_g, updated_at)
        VALUES (1, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            calories = excluded.calories,
            protein_g = excluded.protein_g,
            carbs_g = excluded.carbs_g,
            fat_g = excluded.fat_g,
            updated_at = excluded.updated_at
    `, goals.Calories, goals.ProteinG, goals.CarbsG, goals.FatG, goals.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return models.UserGoals{}, fmt.Errorf("failed to upsert goals: %w", err)
	}
	return goals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.FoodEntry, error) {
	entry := &models.FoodEntry{}
	var mealLabel, imageBase64 sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&entry.ID, &entry.LoggedAt, &entry.RawText, &mealLabel, &imageBase64,
		&entry.Totals.Calories, &entry.Totals.ProteinG, &entry.Totals.CarbsG, &entry.Totals.FatG,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	entry.MealLabel = mealLabel.String
	entry.ImageBase64 = imageBase64.String

	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return entry, nil
}

func (s *SQLiteStorage) loadItemsForEntry(entry *models.FoodEntry) error {
	rows, err := s.db.Query(`
        SELECT name, quantity, unit, calories, protein_g, carbs_g, fat_g, source, confidence
        FROM food_items
        WHERE entry_id = ?
        ORDER BY id
    `, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.FoodItem
	for rows.Next() {
		item := models.FoodItem{}
		err := rows.Scan(
			&item.Name, &item.Quantity, &item.Unit,
			&item.NutrientsTotal.Calories, &item.NutrientsTotal.ProteinG,
			&item.NutrientsTotal.CarbsG, &item.NutrientsTotal.FatG,
			&item.Source, &item.Confidence)
		if err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	entry.Items = items
	return rows.Err()
}
