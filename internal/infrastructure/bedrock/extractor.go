package bedrock

import (
	"context"
	"fmt"
	"strings"
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Extractor asks an Anthropic model on Bedrock for requirement JSON
type Extractor struct {
	api       InvokeModelAPI
	modelID   string
	maxTokens int
}

// NewExtractor creates a Bedrock requirement extractor
func NewExtractor(api InvokeModelAPI, modelID string, maxTokens int) *Extractor {
	if modelID == "" {
		modelID = DefaultChatModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Extractor{api: api, modelID: modelID, maxTokens: maxTokens}
}

// ExtractRequirements returns the model reply; the assistant turn is pre-filled with "{"
func (e *Extractor) ExtractRequirements(ctx context.Context, prompt, documentText string) (string, error) {
	req := anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        e.maxTokens,
		System:           prompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: "RFP document:\n\n" + documentText},
			{Role: "assistant", Content: "{"},
		},
	}

	var resp anthropicResponse
	if err := invoke(ctx, e.api, e.modelID, req, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%s returned no text", e.modelID)
	}
	return sb.String(), nil
}
