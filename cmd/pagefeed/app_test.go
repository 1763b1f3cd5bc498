package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pagefeed/internal/config"
	"github.com/jonathan/pagefeed/internal/llm"
)

// stubClient satisfies llm.Client for wiring tests
type stubClient struct {
	provider string
}

func (c *stubClient) Complete(context.Context, llm.Request) (string, error) { return "", nil }
func (c *stubClient) Provider() string                                      { return c.provider }
func (c *stubClient) Close() error                                          { return nil }

func TestUsableCandidates_FiltersMissingProviders(t *testing.T) {
	clients := map[string]llm.Client{
		llm.ProviderOpenAI: &stubClient{provider: llm.ProviderOpenAI},
	}

	usable, err := usableCandidates([]string{"llama-3.1-8b-instant", "gemini:gemini-1.5-flash"}, clients)
	require.NoError(t, err)
	require.Len(t, usable, 1)
	assert.Equal(t, llm.ProviderOpenAI, usable[0].Provider)
	assert.Equal(t, "llama-3.1-8b-instant", usable[0].Model)
}

func TestUsableCandidates_PreservesOrder(t *testing.T) {
	clients := map[string]llm.Client{
		llm.ProviderOpenAI: &stubClient{provider: llm.ProviderOpenAI},
		llm.ProviderGemini: &stubClient{provider: llm.ProviderGemini},
	}

	usable, err := usableCandidates([]string{"gemini:gemini-1.5-flash", "llama-3.1-8b-instant"}, clients)
	require.NoError(t, err)
	require.Len(t, usable, 2)
	assert.Equal(t, "gemini:gemini-1.5-flash", usable[0].String())
	assert.Equal(t, "openai:llama-3.1-8b-instant", usable[1].String())
}

func TestUsableCandidates_NoneUsable(t *testing.T) {
	_, err := usableCandidates([]string{"gemini:gemini-1.5-flash"}, map[string]llm.Client{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable model candidates")
}

func TestUsableCandidates_ParseError(t *testing.T) {
	clients := map[string]llm.Client{
		llm.ProviderOpenAI: &stubClient{provider: llm.ProviderOpenAI},
	}

	_, err := usableCandidates([]string{"bogus:some-model"}, clients)
	require.Error(t, err)
}

func TestNewStores_Memory(t *testing.T) {
	contentStore, feedStore, cleanup, err := newStores(&config.Config{})
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, contentStore.Set(ctx, "k", "content-value", time.Minute))

	_, found, err := feedStore.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "stores should be independent")

	value, found, err := contentStore.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "content-value", value)
}

func TestNewStores_InvalidRedisURL(t *testing.T) {
	_, _, _, err := newStores(&config.Config{RedisURL: "not-a-redis-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REDIS_URL")
}

func TestNewStores_RedisURL(t *testing.T) {
	// Client construction is lazy; no server is contacted here.
	contentStore, feedStore, cleanup, err := newStores(&config.Config{RedisURL: "redis://localhost:6379/0"})
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, contentStore)
	assert.NotNil(t, feedStore)
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["serve"], "serve command should be registered")
	assert.True(t, names["generate"], "generate command should be registered")
}
