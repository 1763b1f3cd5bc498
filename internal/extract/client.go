// Package extract retrieves page content as markdown through a reader service,
// which fetches the page, strips boilerplate, and returns the main content.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public reader endpoint used when none is configured.
const DefaultBaseURL = "https://r.jina.ai"

// DefaultTimeout is the default reader request timeout. Remote extraction
// renders the page, so it runs slower than a plain fetch.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for reader requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Pagefeed/1.0)"

// RemovedSelectors are stripped server-side before extraction so navigation
// chrome never pollutes the feed input.
var RemovedSelectors = []string{
	"header", "footer", "nav", "aside",
	".sidebar", ".ads", ".advertisement",
	".social-share", ".share-buttons",
	".comments", "#comments",
	".related", ".related-posts",
}

// Result holds the extracted content for one page.
type Result struct {
	URL       string
	Content   string
	FetchedAt time.Time
}

// Error represents a failed extraction.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client talks to a reader service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a reader client. An empty baseURL selects DefaultBaseURL;
// a timeout <= 0 selects DefaultTimeout. apiKey is optional.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Source names the extraction backend for diagnostics, normally the reader host.
func (c *Client) Source() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return c.baseURL
	}
	return u.Host
}

// Fetch extracts the main content of pageURL as markdown. Each call makes
// exactly one reader request; no retries.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	endpoint := c.baseURL + "/" + pageURL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Accept", "text/markdown")
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("X-Remove-Selector", strings.Join(RemovedSelectors, ", "))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "reader request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to read reader response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("reader returned status %d", resp.StatusCode),
		}
	}

	content := strings.TrimSpace(string(body))
	if content == "" {
		return nil, &Error{URL: pageURL, Message: "reader returned empty content"}
	}

	return &Result{
		URL:       pageURL,
		Content:   content,
		FetchedAt: time.Now().UTC(),
	}, nil
}
