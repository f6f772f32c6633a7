package openrouter

import (
	"context"
	"fmt"
)

// DefaultChatModel is used when no model is configured
const DefaultChatModel = "anthropic/claude-3-haiku"

// ChatExtractor asks a chat model for the requirement JSON of a document
type ChatExtractor struct {
	client    *Client
	model     string
	maxTokens int
}

// NewChatExtractor creates a requirement extractor backed by the chat completions API
func NewChatExtractor(client *Client, model string, maxTokens int) *ChatExtractor {
	if model == "" {
		model = DefaultChatModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &ChatExtractor{client: client, model: model, maxTokens: maxTokens}
}

// ExtractRequirements sends the prompt and document and returns the raw reply.
// The assistant turn is pre-filled with "{" to force a JSON object.
func (e *ChatExtractor) ExtractRequirements(ctx context.Context, prompt, documentText string) (string, error) {
	req := ChatRequest{
		Model: e.model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: prompt},
			{Role: RoleUser, Content: "RFP document:\n\n" + documentText},
			{Role: RoleAssistant, Content: "{"},
		},
		MaxTokens:   e.maxTokens,
		Temperature: 0,
	}

	var resp ChatResponse
	if err := e.client.postJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	content, err := chatContent(&resp)
	if err != nil {
		return "", err
	}

	e.client.logger.Debug().
		Str("model", e.model).
		Int("chars", len(content)).
		Str("finish_reason", resp.Choices[0].FinishReason).
		Msg("requirements extracted")

	return content, nil
}
