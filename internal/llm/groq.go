// internal/llm/groq.go
package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultTextModel   = "llama-3.3-70b-versatile"
	defaultVisionModel = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// GroqClient talks to Groq's OpenAI-compatible chat API. It covers both
// text and vision completions; construct once and reuse.
type GroqClient struct {
	client      *openai.Client
	textModel   string
	visionModel string
}

// NewGroqClientFromEnv builds a client from GROQ_API_KEY, GROQ_BASE_URL,
// GROQ_MODEL and GROQ_VISION_MODEL.
func NewGroqClientFromEnv() (*GroqClient, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is empty")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = getEnv("GROQ_BASE_URL", defaultBaseURL)

	return &GroqClient{
		client:      openai.NewClientWithConfig(cfg),
		textModel:   getEnv("GROQ_MODEL", defaultTextModel),
		visionModel: getEnv("GROQ_VISION_MODEL", defaultVisionModel),
	}, nil
}

// Complete sends a system/user message pair to the text model and
// returns the completion.
func (c *GroqClient) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Describe sends a prompt plus an image to the vision model. The image
// goes over the wire as a base64 data URI; only JPEG, PNG and WebP are
// accepted.
func (c *GroqClient) Describe(ctx context.Context, prompt string, image []byte, temperature float32, maxTokens int) (string, error) {
	mime := http.DetectContentType(image)
	if !allowedImageMIME(mime) {
		return "", fmt.Errorf("unsupported image type %s (use JPEG, PNG, or WebP)", mime)
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURI}},
				},
			},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq vision: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq vision: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func allowedImageMIME(mime string) bool {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
