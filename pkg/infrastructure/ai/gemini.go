// Package ai generates workout text using Google Gemini.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel           = "gemini-2.0-flash"
	defaultMaxOutputTokens = 500
)

// Generator is a one-shot text generator backed by Gemini. Each call opens
// and closes its own client; there is no retry and no fallback content.
type Generator struct {
	apiKey    string
	model     string
	maxTokens int32
}

func NewGenerator(apiKey string) *Generator {
	return &Generator{
		apiKey:    apiKey,
		model:     defaultModel,
		maxTokens: defaultMaxOutputTokens,
	}
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(g.maxTokens)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("no text parts in generated content")
	}

	return out.String(), nil
}
