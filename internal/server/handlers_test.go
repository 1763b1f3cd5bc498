package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/pagefeed/internal/extract"
	"github.com/jonathan/pagefeed/internal/feed"
	"github.com/jonathan/pagefeed/internal/pipeline"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Example</title><link>https://example.com</link><description>Posts</description><item><title>One</title><link>https://example.com/one</link><guid>https://example.com/one</guid></item></channel></rss>`

const testFingerprint = "8f434346648f6b96df89dda901c5176b10a6d83961dd3c1ac88b59b2dc327aa4"

// stubFeeds implements FeedService with a canned outcome
type stubFeeds struct {
	outcome *pipeline.Outcome
	err     error
	calls   int
	lastURL string
}

func (f *stubFeeds) Run(_ context.Context, pageURL string) (*pipeline.Outcome, error) {
	f.calls++
	f.lastURL = pageURL
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func goodOutcome() *pipeline.Outcome {
	return &pipeline.Outcome{
		XML:             testFeedXML,
		Model:           "llama-3.1-8b-instant",
		Fingerprint:     testFingerprint,
		Source:          "r.jina.ai",
		ContentCacheHit: false,
		FeedCacheHit:    true,
		Items:           1,
	}
}

func newTestServer(feeds FeedService) *Server {
	return New(Config{Port: 0, Feeds: feeds})
}

func TestHandleFeed_Success(t *testing.T) {
	feeds := &stubFeeds{outcome: goodOutcome()}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss?url=https://example.com/blog", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if feeds.lastURL != "https://example.com/blog" {
		t.Errorf("expected pipeline to receive the query URL, got %q", feeds.lastURL)
	}
	if w.Body.String() != testFeedXML {
		t.Errorf("body does not match pipeline XML")
	}

	headers := map[string]string{
		"Content-Type":          "application/xml; charset=utf-8",
		"Cache-Control":         "public, s-maxage=3600, stale-while-revalidate=86400",
		"X-Feed-Model":          "llama-3.1-8b-instant",
		"X-Content-Source":      "r.jina.ai",
		"X-Content-Cache":       "MISS",
		"X-Feed-Cache":          "HIT",
		"X-Content-Fingerprint": testFingerprint[:16],
		"X-Feed-Items":          "1",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("header %s: expected %q, got %q", name, want, got)
		}
	}
}

func TestHandleFeed_MissingURL(t *testing.T) {
	feeds := &stubFeeds{outcome: goodOutcome()}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected plain text response, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "usage:") {
		t.Errorf("expected usage message, got %q", w.Body.String())
	}
	if feeds.calls != 0 {
		t.Errorf("expected no pipeline calls for missing url, got %d", feeds.calls)
	}
}

func TestHandleFeed_InvalidURL(t *testing.T) {
	invalid := []string{
		"notaurl",
		"example.com/blog",
		"/relative/path",
		"ftp://example.com/files",
	}

	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			feeds := &stubFeeds{outcome: goodOutcome()}
			s := newTestServer(feeds)

			req := httptest.NewRequest(http.MethodGet, "/api/rss?url="+raw, nil)
			w := httptest.NewRecorder()

			s.handleFeed(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for %q, got %d", raw, w.Code)
			}
			if feeds.calls != 0 {
				t.Errorf("expected no pipeline calls for %q, got %d", raw, feeds.calls)
			}
		})
	}
}

func TestHandleFeed_ExtractionFailure(t *testing.T) {
	cause := &extract.Error{
		URL:        "https://example.com/blog",
		StatusCode: http.StatusNotFound,
		Message:    "reader returned status 404",
	}
	feeds := &stubFeeds{err: fmt.Errorf("fetch content: %w", cause)}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss?url=https://example.com/blog", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] != "extraction_failed" {
		t.Errorf("expected error extraction_failed, got %v", resp["error"])
	}
	if resp["message"] != "reader returned status 404" {
		t.Errorf("unexpected message: %v", resp["message"])
	}
	if resp["url"] != "https://example.com/blog" {
		t.Errorf("expected url echoed back, got %v", resp["url"])
	}
}

func TestHandleFeed_GenerationFailure(t *testing.T) {
	feeds := &stubFeeds{err: &feed.GenerationError{
		Message:    "all model candidates exhausted",
		StatusCode: http.StatusTooManyRequests,
	}}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss?url=https://example.com/blog", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] != "generation_failed" {
		t.Errorf("expected error generation_failed, got %v", resp["error"])
	}
	if resp["status"] != float64(http.StatusTooManyRequests) {
		t.Errorf("expected upstream status 429, got %v", resp["status"])
	}
}

func TestHandleFeed_GenerationFailureWithoutUpstreamStatus(t *testing.T) {
	feeds := &stubFeeds{err: &feed.GenerationError{Message: "no model candidates configured"}}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss?url=https://example.com/blog", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("expected status to default to 500, got %v", resp["status"])
	}
}

func TestHandleFeed_UnexpectedError(t *testing.T) {
	feeds := &stubFeeds{err: errors.New("boom")}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss?url=https://example.com/blog", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] != "internal_error" {
		t.Errorf("expected error internal_error, got %v", resp["error"])
	}
}

func TestHandleFeed_OmitsItemCountWhenUnknown(t *testing.T) {
	outcome := goodOutcome()
	outcome.Items = -1
	feeds := &stubFeeds{outcome: outcome}
	s := newTestServer(feeds)

	req := httptest.NewRequest(http.MethodGet, "/api/rss?url=https://example.com/blog", nil)
	w := httptest.NewRecorder()

	s.handleFeed(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if _, ok := w.Header()["X-Feed-Items"]; ok {
		t.Errorf("expected X-Feed-Items to be omitted when count is unknown")
	}
}
