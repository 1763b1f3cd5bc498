// Package pipeline provides the high-level orchestration behind the feed
// endpoint: content cache, fingerprint, generation cache, sanitizer, strictly
// in that order.
package pipeline

import (
	"context"
	"log"

	"github.com/jonathan/pagefeed/internal/cache"
	"github.com/jonathan/pagefeed/internal/extract"
	"github.com/jonathan/pagefeed/internal/feed"
	"github.com/jonathan/pagefeed/internal/fingerprint"
	"github.com/jonathan/pagefeed/internal/sanitize"
)

// Extractor retrieves page content. *extract.Client satisfies it.
type Extractor interface {
	Fetch(ctx context.Context, pageURL string) (*extract.Result, error)
	Source() string
}

// Generator produces a feed from extracted content. *feed.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, url, content string) (*feed.Result, error)
}

// Outcome is one served feed plus its diagnostics.
type Outcome struct {
	XML             string
	Model           string
	Fingerprint     string
	Source          string
	ContentCacheHit bool
	FeedCacheHit    bool
	Items           int // -1 when the document resisted strict parsing
}

// Config assembles a Pipeline.
type Config struct {
	Extractor    Extractor
	Generator    Generator
	ContentCache *cache.Loader[extract.Result]
	FeedCache    *cache.Loader[feed.Result]
}

// Pipeline executes the request flow. All stages run on the caller's
// goroutine; concurrency control lives in the cache loaders.
type Pipeline struct {
	extractor Extractor
	generator Generator
	content   *cache.Loader[extract.Result]
	feeds     *cache.Loader[feed.Result]
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		extractor: cfg.Extractor,
		generator: cfg.Generator,
		content:   cfg.ContentCache,
		feeds:     cfg.FeedCache,
	}
}

// Run serves one feed request for pageURL. Extraction is skipped when the
// content cache holds a live entry; generation is skipped when the feed cache
// holds a live entry for the content's fingerprint. The sanitizer runs on
// every response, cached or not, which is safe because it is idempotent.
func (p *Pipeline) Run(ctx context.Context, pageURL string) (*Outcome, error) {
	content, contentHit, err := p.content.Load(ctx, pageURL, func(ctx context.Context) (extract.Result, error) {
		result, err := p.extractor.Fetch(ctx, pageURL)
		if err != nil {
			return extract.Result{}, err
		}
		return *result, nil
	})
	if err != nil {
		return nil, err
	}

	fp := fingerprint.Hash(pageURL, content.Content)

	generated, feedHit, err := p.feeds.Load(ctx, fp, func(ctx context.Context) (feed.Result, error) {
		result, err := p.generator.Generate(ctx, pageURL, content.Content)
		if err != nil {
			return feed.Result{}, err
		}
		return *result, nil
	})
	if err != nil {
		return nil, err
	}

	xml := sanitize.XML(generated.XML)

	items := -1
	if info, err := feed.Inspect(xml); err == nil {
		items = info.Items
		if info.GUIDMismatches > 0 {
			log.Printf("[pipeline] %d guid/link mismatches in feed for %s", info.GUIDMismatches, pageURL)
		}
	} else {
		log.Printf("[pipeline] feed for %s resists strict parsing: %v", pageURL, err)
	}

	return &Outcome{
		XML:             xml,
		Model:           generated.Model,
		Fingerprint:     fp,
		Source:          p.extractor.Source(),
		ContentCacheHit: contentHit,
		FeedCacheHit:    feedHit,
		Items:           items,
	}, nil
}
