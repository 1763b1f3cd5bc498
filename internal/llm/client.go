// Package llm provides completion clients for the model services behind feed
// generation.
package llm

import "context"

// Request is a single completion request. Decoding parameters travel with the
// request so every provider is driven with the same deterministic settings.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	Seed        int
}

// Client issues one completion per call.
type Client interface {
	// Complete returns the raw completion text. Provider failures come back
	// as *Error; an empty completion is returned as-is for the caller's
	// output validation to reject.
	Complete(ctx context.Context, req Request) (string, error)
	// Provider identifies the backing service for logs and diagnostics.
	Provider() string
	// Close releases underlying connections.
	Close() error
}
