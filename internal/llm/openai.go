package llm

import (
	"context"
	"errors"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ProviderOpenAI labels clients speaking the OpenAI chat-completion protocol,
// including compatible hosted endpoints.
const ProviderOpenAI = "openai"

// DefaultCompletionTimeout bounds a single completion call.
const DefaultCompletionTimeout = 120 * time.Second

// OpenAIClient calls an OpenAI-compatible chat-completion service.
type OpenAIClient struct {
	client  *openai.Client
	timeout time.Duration
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAI builds a client for the given key. baseURL overrides the default
// endpoint for compatible services; a timeout <= 0 selects
// DefaultCompletionTimeout.
func NewOpenAI(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), timeout: timeout}
}

// Provider implements Client.
func (c *OpenAIClient) Provider() string {
	return ProviderOpenAI
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := req.Temperature
	if temperature == 0 {
		// The wire encoding omits a zero temperature and the service then
		// falls back to its own default; the smallest positive value survives
		// serialization.
		temperature = math.SmallestNonzeroFloat32
	}

	seed := req.Seed
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		Seed:        &seed,
	})
	if err != nil {
		return "", c.wrapError(req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Close implements Client.
func (c *OpenAIClient) Close() error {
	return nil
}

// wrapError maps transport and API failures onto *Error, carrying the HTTP
// status when the service reported one.
func (c *OpenAIClient) wrapError(model string, err error) error {
	wrapped := &Error{Provider: ProviderOpenAI, Model: model, Message: err.Error(), Cause: err}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrapped.StatusCode = apiErr.HTTPStatusCode
		return wrapped
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrapped.StatusCode = reqErr.HTTPStatusCode
	}
	return wrapped
}
