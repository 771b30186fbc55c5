package model

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator implements Generator using the official openai-go SDK
// (chat completions).
type OpenAIGenerator struct {
	model         string
	opts          []option.RequestOption
	promptBuilder *PromptBuilder
}

func NewOpenAIGenerator(apiKey, model, baseURL string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; provide ai.api_key")
	}
	if model == "" {
		model = "gpt-4o"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{
		model:         model,
		opts:          opts,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (o *OpenAIGenerator) GeneratePoster(ctx context.Context, source, stylePrompt string) (string, error) {
	return o.generate(ctx, o.promptBuilder.BuildPosterPrompt(source, stylePrompt))
}

func (o *OpenAIGenerator) RevisePoster(ctx context.Context, currentJSON, instruction string) (string, error) {
	return o.generate(ctx, o.promptBuilder.BuildRevisionPrompt(currentJSON, instruction))
}

func (o *OpenAIGenerator) generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
