package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// CompatGenerator talks to any OpenAI-compatible chat-completions endpoint
// (local runtimes, proxies). The response body is plucked with gjson so a
// provider that decorates the payload with extra fields still works.
type CompatGenerator struct {
	client        *http.Client
	apiKey        string
	model         string
	endpoint      string
	promptBuilder *PromptBuilder
}

type compatChatRequest struct {
	Model       string              `json:"model"`
	Messages    []compatChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

type compatChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewCompatGenerator(apiKey, model, baseURL string) *CompatGenerator {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	return &CompatGenerator{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		apiKey:        apiKey,
		model:         model,
		endpoint:      endpoint,
		promptBuilder: &PromptBuilder{},
	}
}

func (c *CompatGenerator) GeneratePoster(ctx context.Context, source, stylePrompt string) (string, error) {
	return c.generate(ctx, c.promptBuilder.BuildPosterPrompt(source, stylePrompt))
}

func (c *CompatGenerator) RevisePoster(ctx context.Context, currentJSON, instruction string) (string, error) {
	return c.generate(ctx, c.promptBuilder.BuildRevisionPrompt(currentJSON, instruction))
}

func (c *CompatGenerator) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(compatChatRequest{
		Model: c.model,
		Messages: []compatChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, msg)
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if content == "" {
		return "", fmt.Errorf("model endpoint returned no content")
	}
	return content, nil
}
