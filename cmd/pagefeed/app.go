package main

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/pagefeed/internal/cache"
	"github.com/jonathan/pagefeed/internal/config"
	"github.com/jonathan/pagefeed/internal/extract"
	"github.com/jonathan/pagefeed/internal/feed"
	"github.com/jonathan/pagefeed/internal/llm"
	"github.com/jonathan/pagefeed/internal/pipeline"
)

// newPipeline assembles the extraction, generation and caching stack from cfg.
// The returned cleanup releases cache stores and provider clients.
func newPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	contentStore, feedStore, closeStores, err := newStores(cfg)
	if err != nil {
		return nil, nil, err
	}

	clients, err := newClients(ctx, cfg)
	if err != nil {
		closeStores()
		return nil, nil, err
	}

	candidates, err := usableCandidates(cfg.Models, clients)
	if err != nil {
		for _, c := range clients {
			_ = c.Close()
		}
		closeStores()
		return nil, nil, err
	}

	pipe := pipeline.New(pipeline.Config{
		Extractor:    extract.NewClient(cfg.ReaderURL, cfg.ReaderAPIKey, cfg.FetchTimeout),
		Generator:    feed.NewGenerator(clients, candidates),
		ContentCache: cache.NewLoader[extract.Result]("content", contentStore, cfg.ContentTTL),
		FeedCache:    cache.NewLoader[feed.Result]("feed", feedStore, cfg.FeedTTL),
	})

	cleanup := func() {
		for _, c := range clients {
			_ = c.Close()
		}
		closeStores()
	}
	return pipe, cleanup, nil
}

// newStores builds the content and feed cache stores. With REDIS_URL set both
// share one Redis client under distinct key prefixes; otherwise each gets an
// in-process store.
func newStores(cfg *config.Config) (cache.Store, cache.Store, func(), error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		log.Printf("[cache] using redis at %s", opts.Addr)

		contentStore := cache.NewRedis(client, "pagefeed:content", cache.DefaultRedisTimeout)
		feedStore := cache.NewRedis(client, "pagefeed:feed", cache.DefaultRedisTimeout)
		return contentStore, feedStore, func() { _ = client.Close() }, nil
	}

	contentStore := cache.NewMemory(cache.DefaultSweepInterval)
	feedStore := cache.NewMemory(cache.DefaultSweepInterval)
	return contentStore, feedStore, func() {
		_ = contentStore.Close()
		_ = feedStore.Close()
	}, nil
}

// newClients builds one completion client per configured provider credential.
func newClients(ctx context.Context, cfg *config.Config) (map[string]llm.Client, error) {
	clients := make(map[string]llm.Client)

	if cfg.OpenAIKey != "" {
		clients[llm.ProviderOpenAI] = llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.CompletionTimeout)
	}
	if cfg.GeminiKey != "" {
		gemini, err := llm.NewGemini(ctx, cfg.GeminiKey, cfg.CompletionTimeout)
		if err != nil {
			for _, c := range clients {
				_ = c.Close()
			}
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		clients[llm.ProviderGemini] = gemini
	}

	return clients, nil
}

// usableCandidates parses the configured model specs and drops candidates
// whose provider has no client, keeping the configured order.
func usableCandidates(specs []string, clients map[string]llm.Client) ([]feed.Candidate, error) {
	candidates, err := feed.ParseCandidates(specs)
	if err != nil {
		return nil, err
	}

	usable := make([]feed.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := clients[c.Provider]; !ok {
			log.Printf("[config] skipping model candidate %s: no %s credential configured", c, c.Provider)
			continue
		}
		usable = append(usable, c)
	}

	if len(usable) == 0 {
		return nil, fmt.Errorf("no usable model candidates: check MODELS and provider credentials")
	}
	return usable, nil
}
