package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/pagefeed/internal/llm"
	"github.com/jonathan/pagefeed/internal/prompts"
)

// Decoding parameters shared by every candidate. Identical content must
// produce an identical feed for the cache lifetime, so temperature sits at the
// minimum and the seed is fixed for providers that honor one.
const (
	Temperature     float32 = 0
	Seed                    = 42
	MaxOutputTokens         = 4096
)

// maxPromptContent bounds how much page content enters the prompt. The cache
// fingerprint is always computed over the full content, never the clipped form.
const maxPromptContent = 16000

// Result is a generated feed and the model that produced it.
type Result struct {
	XML   string
	Model string
}

// GenerationError reports that no candidate produced a valid feed, or that a
// candidate failed in a way another attempt cannot help.
type GenerationError struct {
	Message    string
	StatusCode int // last upstream status, 0 when none applies
	Cause      error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("feed generation failed: %s: %v", e.Message, e.Cause)
	}
	return "feed generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ValidationError reports model output without the required RSS structure.
// It is a soft failure: the next candidate gets a try.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid feed output: " + e.Reason
}

// outcome tags one candidate attempt; the explicit enum keeps the fallback
// policy readable and testable.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetry
	outcomeFatal
)

// Generator drives the ordered candidate list.
type Generator struct {
	clients    map[string]llm.Client
	candidates []Candidate
	system     string
	userTmpl   string
}

// NewGenerator builds a generator over the given provider clients and
// candidate order. Prompt text comes from the embedded prompt file.
func NewGenerator(clients map[string]llm.Client, candidates []Candidate) *Generator {
	return &Generator{
		clients:    clients,
		candidates: candidates,
		system:     prompts.MustGet("feed.json", "system"),
		userTmpl:   prompts.MustGet("feed.json", "user"),
	}
}

// Candidates returns the configured fallback order.
func (g *Generator) Candidates() []Candidate {
	return g.candidates
}

// Generate produces a validated RSS document for url. Candidates run in
// order: a rate-limited or unavailable provider and structurally invalid
// output advance to the next candidate; any other failure aborts immediately.
func (g *Generator) Generate(ctx context.Context, url, content string) (*Result, error) {
	if len(g.candidates) == 0 {
		return nil, &GenerationError{Message: "no model candidates configured"}
	}

	user := prompts.Format(g.userTmpl, map[string]string{
		"URL":     url,
		"Content": clip(content, maxPromptContent),
	})

	var lastErr error
	for _, candidate := range g.candidates {
		xml, err := g.attempt(ctx, candidate, user)
		switch classify(ctx, err) {
		case outcomeSuccess:
			log.Printf("[feed] generated feed for %s with %s", url, candidate)
			return &Result{XML: xml, Model: candidate.Model}, nil
		case outcomeRetry:
			log.Printf("[feed] candidate %s failed for %s, trying next: %v", candidate, url, err)
			lastErr = err
		case outcomeFatal:
			return nil, &GenerationError{
				Message:    fmt.Sprintf("candidate %s failed", candidate),
				StatusCode: upstreamStatus(err),
				Cause:      err,
			}
		}
	}

	return nil, &GenerationError{
		Message:    "all model candidates exhausted",
		StatusCode: upstreamStatus(lastErr),
		Cause:      lastErr,
	}
}

// attempt runs one candidate: a single completion call, fence stripping, and
// structural validation.
func (g *Generator) attempt(ctx context.Context, candidate Candidate, user string) (string, error) {
	client, ok := g.clients[candidate.Provider]
	if !ok {
		return "", fmt.Errorf("no client for provider %s", candidate.Provider)
	}

	raw, err := client.Complete(ctx, llm.Request{
		Model:       candidate.Model,
		System:      g.system,
		User:        user,
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
		Seed:        Seed,
	})
	if err != nil {
		return "", err
	}

	xml := llm.CleanXMLBlock(raw)
	if err := ValidateStructure(xml); err != nil {
		return "", err
	}
	return xml, nil
}

// classify maps an attempt error onto the fallback policy.
func classify(ctx context.Context, err error) outcome {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &validationErr), llm.IsTransient(ctx, err):
		return outcomeRetry
	default:
		return outcomeFatal
	}
}

// ValidateStructure checks the minimal RSS shape: an <rss element and a
// <channel> element must both be present. Anything stricter would reject
// documents the sanitizer can still repair and a reader can still consume.
func ValidateStructure(xml string) error {
	if xml == "" {
		return &ValidationError{Reason: "empty output"}
	}
	if !strings.Contains(xml, "<rss") {
		return &ValidationError{Reason: "missing <rss element"}
	}
	if !strings.Contains(xml, "<channel>") {
		return &ValidationError{Reason: "missing <channel> element"}
	}
	return nil
}

// upstreamStatus digs the provider HTTP status out of err for error responses.
func upstreamStatus(err error) int {
	var provErr *llm.Error
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return 0
}

// clip truncates s to at most max bytes on a rune boundary. Overlong pages
// keep their head, which carries the newest entries on listing pages.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
