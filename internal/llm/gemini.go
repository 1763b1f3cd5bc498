package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ProviderGemini labels the Google Gemini client.
const ProviderGemini = "gemini"

// GeminiClient calls the Gemini API. The service exposes no seed parameter,
// so determinism rests on the temperature setting alone.
type GeminiClient struct {
	client  *genai.Client
	timeout time.Duration
}

var _ Client = (*GeminiClient)(nil)

// NewGemini creates a Gemini client. A timeout <= 0 selects
// DefaultCompletionTimeout.
func NewGemini(ctx context.Context, apiKey string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	return &GeminiClient{client: client, timeout: timeout}, nil
}

// Provider implements Client.
func (c *GeminiClient) Provider() string {
	return ProviderGemini
}

// Complete implements Client.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(req.Model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", c.wrapError(req.Model, err)
	}
	return extractText(resp), nil
}

// Close implements Client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractText joins the text parts of the first candidate. A response without
// text yields the empty string for the caller's output validation to reject.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, "")
}

// wrapError maps API failures onto *Error, carrying the HTTP status the
// service reported.
func (c *GeminiClient) wrapError(model string, err error) error {
	wrapped := &Error{Provider: ProviderGemini, Model: model, Message: err.Error(), Cause: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		wrapped.StatusCode = apiErr.Code
	}
	return wrapped
}
