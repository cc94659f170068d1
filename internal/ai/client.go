package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenAI-compatible completion endpoint
	DefaultBaseURL = "https://api.openai.com"

	// DefaultModel is the completion model used for ad copy
	DefaultModel = "gpt-4o-mini"

	systemPrompt = `You write short advertising copy for e-commerce products. ` +
		`Respond with a JSON object {"title": ..., "copy": ...}. ` +
		`The title must be at most 125 characters and the copy at most 125 characters.`
)

// Config holds completion API client configuration
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Retries    int
}

// Client calls an OpenAI-compatible chat completion API to generate ad copy
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	retries int
}

// NewClient creates a new completion API client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		client:  client,
		retries: retries,
	}
}

// GenerateRequest describes the product the copy is for
type GenerateRequest struct {
	ProductTitle       string `json:"product_title"`
	ProductDescription string `json:"product_description,omitempty"`
	Tone               string `json:"tone,omitempty"`
}

// GenerateResult carries the generated ad title and body copy
type GenerateResult struct {
	Title string `json:"title"`
	Copy  string `json:"copy"`
}

// GenerateAdCopy requests a title/copy pair for a product. Transient
// failures are retried up to the configured count.
func (c *Client) GenerateAdCopy(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	user, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(user)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	attempts := c.retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, retryable, err := c.complete(ctx, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("ad copy generation failed: %w", lastErr)
}

// complete performs one completion call. The second return value
// reports whether the failure is worth retrying.
func (c *Client) complete(ctx context.Context, payload []byte) (*GenerateResult, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Retry server-side errors and rate limits, not caller errors
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, false, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, false, fmt.Errorf("completion response contained no choices")
	}

	result, err := parseResult(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, false, err
	}

	return result, false, nil
}

// parseResult decodes the model's JSON answer, falling back to a
// line split when the model ignored the format instruction.
func parseResult(content string) (*GenerateResult, error) {
	content = strings.TrimSpace(content)

	var result GenerateResult
	if err := json.Unmarshal([]byte(content), &result); err == nil && result.Title != "" {
		return &result, nil
	}

	lines := strings.SplitN(content, "\n", 2)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("completion response contained no usable copy")
	}

	result = GenerateResult{Title: strings.TrimSpace(lines[0])}
	if len(lines) == 2 {
		result.Copy = strings.TrimSpace(lines[1])
	}
	return &result, nil
}

// chat completion wire types

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
