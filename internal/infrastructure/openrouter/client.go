// Package openrouter talks to OpenAI-compatible chat and embedding endpoints
// such as OpenRouter.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// DefaultBaseURL is the OpenRouter API root
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const (
	defaultMaxAttempts = 3
	maxErrorBodyBytes  = 512
)

// Config holds client configuration
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	AppName           string // sent as X-Title
	Logger            zerolog.Logger
}

// Client handles authenticated JSON calls with rate limiting and retries
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	appName     string
	rateLimiter *rate.Limiter
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      zerolog.Logger
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		appName:     cfg.AppName,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		maxAttempts: defaultMaxAttempts,
		backoff:     exponentialBackoff,
		logger:      cfg.Logger,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// apiError is a non-200 response
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

func (e *apiError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// postJSON sends payload to path and decodes the JSON response into out.
// Transport errors, 429 and 5xx responses are retried with backoff.
func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		respBody, err := c.do(ctx, path, body)
		if err == nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}
		lastErr = err

		var apiErr *apiError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn().
			Err(err).
			Str("path", path).
			Int("attempt", attempt).
			Msg("provider request failed")

		if attempt < c.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	var apiErr *apiError
	if errors.As(lastErr, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, lastErr)
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TenderFlow/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.appName != "" {
		req.Header.Set("X-Title", c.appName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(respBody)
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return nil, &apiError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return respBody, nil
}
