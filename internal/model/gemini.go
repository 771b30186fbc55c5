package model

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator implements Generator using Gemini text generation.
type GeminiGenerator struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewGeminiGenerator(ctx context.Context, apiKey string, modelName string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiGenerator{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (g *GeminiGenerator) GeneratePoster(ctx context.Context, source, stylePrompt string) (string, error) {
	return g.generate(ctx, g.promptBuilder.BuildPosterPrompt(source, stylePrompt))
}

func (g *GeminiGenerator) RevisePoster(ctx context.Context, currentJSON, instruction string) (string, error) {
	return g.generate(ctx, g.promptBuilder.BuildRevisionPrompt(currentJSON, instruction))
}

// generate returns the model text verbatim; the ingestion pipeline owns
// fence stripping and repair.
func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	contents := genai.Text(prompt)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
