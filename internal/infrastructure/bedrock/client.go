// Package bedrock adapts Amazon Bedrock models to the embedding and
// requirement extraction ports.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Model identifiers
const (
	DefaultEmbeddingModel = "amazon.titan-embed-text-v1"
	DefaultChatModel      = "anthropic.claude-3-haiku-20240307-v1:0"
	anthropicVersion      = "bedrock-2023-05-31"
	titanDimension        = 1536
)

// InvokeModelAPI is the subset of *bedrockruntime.Client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// NewRuntimeClient creates a Bedrock runtime client from an AWS config
func NewRuntimeClient(cfg aws.Config) *bedrockruntime.Client {
	return bedrockruntime.NewFromConfig(cfg)
}

// invoke sends a JSON body to modelID and decodes the JSON reply into out
func invoke(ctx context.Context, api InvokeModelAPI, modelID string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return fmt.Errorf("invoke %s: %w", modelID, err)
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", modelID, err)
	}
	return nil
}
