// internal/agent/agent.go
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"nutritrack-mcp/internal/models"
)

const (
	textTemperature = 0.1
	textMaxTokens   = 1024

	visionTemperature = 0.1
	visionMaxTokens   = 512
)

// TextCompleter produces a single completion for a system/user message
// pair.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

// VisionDescriber produces a text completion for a prompt plus an image.
type VisionDescriber interface {
	Describe(ctx context.Context, prompt string, image []byte, temperature float32, maxTokens int) (string, error)
}

// Agent drives the extraction pipeline: model call, tolerant parse,
// field defaulting. It holds no mutable state and is safe for
// concurrent use.
type Agent struct {
	text   TextCompleter
	vision VisionDescriber
}

func New(text TextCompleter, vision VisionDescriber) *Agent {
	return &Agent{text: text, vision: vision}
}

// ParseText turns a natural-language food log into a structured
// extraction. currentDatetime defaults to now, timezone to UTC.
func (a *Agent) ParseText(ctx context.Context, text, currentDatetime, timezone string) (models.FoodLogExtraction, error) {
	if currentDatetime == "" {
		currentDatetime = time.Now().Format(time.RFC3339)
	}
	if timezone == "" {
		timezone = "UTC"
	}

	user := fmt.Sprintf(userPromptFormat, currentDatetime, timezone, text)

	completion, err := a.text.Complete(ctx, systemPrompt, user, textTemperature, textMaxTokens)
	if err != nil {
		return models.FoodLogExtraction{}, fmt.Errorf("completion request failed: %w", err)
	}

	return Normalize(completion, currentDatetime)
}

// AnalyzeImage runs the two-stage image pipeline: the vision model
// describes the visible food in plain text, then that description goes
// through ParseText as if the user had typed it. A vision-stage failure
// surfaces as *VisionAnalysisError and the text stage is not attempted.
func (a *Agent) AnalyzeImage(ctx context.Context, image []byte, imageContext, currentDatetime, timezone string) (models.FoodLogExtraction, error) {
	if currentDatetime == "" {
		currentDatetime = time.Now().Format(time.RFC3339)
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if imageContext == "" {
		imageContext = "None"
	}

	prompt := fmt.Sprintf(visionPromptFormat, currentDatetime, timezone, imageContext)

	description, err := a.vision.Describe(ctx, prompt, image, visionTemperature, visionMaxTokens)
	if err != nil {
		return models.FoodLogExtraction{}, &VisionAnalysisError{Err: err}
	}
	log.Printf("Vision described image: %s", excerpt(description))

	return a.ParseText(ctx, description, currentDatetime, timezone)
}
