// internal/server/tools.go
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"nutritrack-mcp/internal/agent"
	"nutritrack-mcp/internal/models"
	"nutritrack-mcp/internal/nutrition"
)

type ParseFoodLogParams struct {
	Text            string `json:"text" description:"Natural language food log, e.g. 'I had 2 eggs and toast for breakfast'"`
	CurrentDatetime string `json:"current_datetime,omitempty" description:"ISO datetime used as the logging time (defaults to now)"`
	Timezone        string `json:"timezone,omitempty" description:"IANA timezone name (defaults to UTC)"`
}

type AnalyzeImageParams struct {
	ImageBase64     string `json:"image_base64" description:"Base64-encoded JPEG/PNG/WebP image of the food"`
	Context         string `json:"context,omitempty" description:"Free-text context about the image"`
	CurrentDatetime string `json:"current_datetime,omitempty" description:"ISO datetime used as the logging time (defaults to now)"`
	Timezone        string `json:"timezone,omitempty" description:"IANA timezone name (defaults to UTC)"`
}

type EstimateNutritionParams struct {
	FoodName string  `json:"food_name" description:"Name of the food to estimate"`
	Quantity float64 `json:"quantity,omitempty" description:"Quantity in the food's reference unit (defaults to 1)"`
}

type LogFoodParams struct {
	Text            string `json:"text" description:"Natural language food log to parse and persist"`
	CurrentDatetime string `json:"current_datetime,omitempty" description:"ISO datetime used as the logging time (defaults to now)"`
	Timezone        string `json:"timezone,omitempty" description:"IANA timezone name (defaults to UTC)"`
}

type GetEntriesParams struct {
	StartDate string `json:"start_date,omitempty" description:"Start date for entry query (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" description:"End date for entry query (YYYY-MM-DD)"`
	Limit     int    `json:"limit,omitempty" description:"Maximum number of entries to return"`
}

type DeleteEntryParams struct {
	ID string `json:"id" description:"ID of the entry to delete"`
}

type DailySummaryParams struct {
	Date string `json:"date,omitempty" description:"Calendar date (YYYY-MM-DD, defaults to today)"`
}

type SetGoalsParams struct {
	Calories float64 `json:"calories" description:"Daily calorie target"`
	ProteinG float64 `json:"protein_g" description:"Daily protein target in grams"`
	CarbsG   float64 `json:"carbs_g" description:"Daily carbs target in grams"`
	FatG     float64 `json:"fat_g" description:"Daily fat target in grams"`
}

// parsedFoodLog is the wire shape of a resolved response: the response
// fields plus totals recomputed from the item list.
type parsedFoodLog struct {
	models.ParseFoodLogResponse
	Totals models.NutrientTotals `json:"totals"`
}

func withTotals(resp models.ParseFoodLogResponse) parsedFoodLog {
	return parsedFoodLog{ParseFoodLogResponse: resp, Totals: resp.Totals()}
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

func (s *NutriTrackServer) toolHandlers() map[string]toolHandler {
	return map[string]toolHandler{
		"parse_food_log":     s.handleParseFoodLog,
		"analyze_food_image": s.handleAnalyzeFoodImage,
		"estimate_nutrition": s.handleEstimateNutrition,
		"log_food":           s.handleLogFood,
		"get_food_entries":   s.handleGetEntries,
		"delete_food_entry":  s.handleDeleteEntry,
		"daily_summary":      s.handleDailySummary,
		"get_goals":          s.handleGetGoals,
		"set_goals":          s.handleSetGoals,
	}
}

// handleParseFoodLog parses a text food log and resolves nutrition
// without persisting anything.
func (s *NutriTrackServer) handleParseFoodLog(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ParseFoodLogParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	extraction, err := s.extractor.ParseText(ctx, params.Text, params.CurrentDatetime, params.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to parse food log: %w", err)
	}

	return s.createJSONResponse(withTotals(agent.Resolve(extraction)))
}

// handleAnalyzeFoodImage runs the two-stage image pipeline and resolves
// nutrition; items are marked as image-sourced.
func (s *NutriTrackServer) handleAnalyzeFoodImage(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeImageParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.ImageBase64 == "" {
		return nil, fmt.Errorf("image_base64 is required")
	}

	// Tolerate a full data URI as input.
	raw := params.ImageBase64
	if idx := strings.Index(raw, ";base64,"); idx != -1 {
		raw = raw[idx+len(";base64,"):]
	}
	image, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}

	extraction, err := s.extractor.AnalyzeImage(ctx, image, params.Context, params.CurrentDatetime, params.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}

	resp := agent.Resolve(extraction)
	for i := range resp.Items {
		resp.Items[i].Source = models.SourceImage
	}

	return s.createJSONResponse(withTotals(resp))
}

// handleEstimateNutrition answers from the fallback knowledge base
// alone; no model call is made.
func (s *NutriTrackServer) handleEstimateNutrition(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EstimateNutritionParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.FoodName == "" {
		return nil, fmt.Errorf("food_name is required")
	}
	if params.Quantity <= 0 {
		params.Quantity = 1
	}

	result := nutrition.Estimate(params.FoodName, params.Quantity)
	return s.createJSONResponse(map[string]interface{}{
		"food_name": result.FoodName,
		"quantity":  result.Quantity,
		"unit":      result.Unit,
		"nutrients": result.Totals,
		"default":   result.Default,
	})
}

// handleLogFood parses, resolves and persists a food entry. When the
// extraction asks for clarification the entry is not saved and the
// question is returned instead.
func (s *NutriTrackServer) handleLogFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	extraction, err := s.extractor.ParseText(ctx, params.Text, params.CurrentDatetime, params.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to parse food log: %w", err)
	}

	resp := agent.Resolve(extraction)

	if resp.NeedsClarification && resp.ClarificationQuestion != nil {
		result := map[string]interface{}{
			"needs_clarification":    true,
			"clarification_question": *resp.ClarificationQuestion,
			"preliminary_analysis":   withTotals(resp),
		}
		return s.createJSONResponse(result)
	}

	now := time.Now()
	entry := &models.FoodEntry{
		ID:        fmt.Sprintf("entry_%d", now.UnixNano()),
		LoggedAt:  resp.LoggedAtISO,
		RawText:   params.Text,
		MealLabel: resp.MealLabel,
		Items:     resp.Items,
		Totals:    resp.Totals(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	return s.createJSONResponse(entry)
}

// handleGetEntries retrieves food entries from storage
func (s *NutriTrackServer) handleGetEntries(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetEntriesParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.Limit <= 0 {
		params.Limit = 100
	}

	entries, err := s.storage.ListEntries(params.StartDate, params.EndDate, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	return s.createJSONResponse(entries)
}

func (s *NutriTrackServer) handleDeleteEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params DeleteEntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.ID == "" {
		return nil, fmt.Errorf("id is required")
	}

	deleted, err := s.storage.DeleteEntry(params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return nil, fmt.Errorf("entry not found: %s", params.ID)
	}

	return s.createJSONResponse(map[string]string{"message": "Entry deleted"})
}

// handleDailySummary sums one day's entries and reports progress
// against goals.
func (s *NutriTrackServer) handleDailySummary(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params DailySummaryParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Date == "" {
		params.Date = time.Now().Format("2006-01-02")
	}

	totals, count, err := s.storage.DailySummary(params.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily summary: %w", err)
	}

	goals, err := s.storage.GetGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	return s.createJSONResponse(map[string]interface{}{
		"date":    params.Date,
		"entries": count,
		"totals":  totals,
		"goals":   goals,
	})
}

func (s *NutriTrackServer) handleGetGoals(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	goals, err := s.storage.GetGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	return s.createJSONResponse(goals)
}

func (s *NutriTrackServer) handleSetGoals(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetGoalsParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Calories <= 0 {
		return nil, fmt.Errorf("calories must be positive")
	}

	goals, err := s.storage.SetGoals(models.UserGoals{
		Calories: params.Calories,
		ProteinG: params.ProteinG,
		CarbsG:   params.CarbsG,
		FatG:     params.FatG,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save goals: %w", err)
	}
	return s.createJSONResponse(goals)
}

// Register all tools - dispatch itself happens in the HTTP handler
func (s *NutriTrackServer) registerTools() error {
	for name := range s.toolHandlers() {
		log.Printf("Registered tool: %s", name)
	}
	return nil
}
