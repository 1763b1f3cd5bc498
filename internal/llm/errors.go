package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error describes a failed completion call.
type Error struct {
	Provider   string
	Model      string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed for %s (status %d): %s", e.Provider, e.Model, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s completion failed for %s: %s", e.Provider, e.Model, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Transient reports whether the failure is a rate-limit or availability
// problem that another candidate model may not share.
func (e *Error) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusServiceUnavailable
}

// IsTransient classifies err for candidate fallback: true for rate-limited and
// unavailable providers, and for a per-call deadline that expired while the
// parent request context is still live. Everything else aborts the fallback
// chain.
func IsTransient(ctx context.Context, err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) && provErr.Transient() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
}
