// Package awsclient builds the shared AWS SDK configuration.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Options selects region, an optional endpoint override and optional static credentials.
// Without static credentials the default provider chain is used.
type Options struct {
	Region          string
	Endpoint        string // e.g. http://localhost:4566 for local stacks
	AccessKeyID     string
	SecretAccessKey string
}

// LoadConfig returns an aws.Config for Bedrock and DynamoDB clients
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	if opts.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return cfg, nil
}
