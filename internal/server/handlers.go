package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/pagefeed/internal/fingerprint"
)

// usageLine is the plain-text body for malformed requests.
const usageLine = "usage: GET /api/rss?url=<absolute http(s) page URL>"

// feedCacheControl advertises the feed's shared-cache lifetime: fresh for an
// hour, then serveable stale for a day while a revalidation runs.
const feedCacheControl = "public, s-maxage=3600, stale-while-revalidate=86400"

// handleFeed serves GET /api/rss. Parameter problems are rejected before any
// backend work starts.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		s.usageResponse(w)
		return
	}
	if err := s.validate.Var(pageURL, "required,http_url"); err != nil {
		s.usageResponse(w)
		return
	}

	outcome, err := s.feeds.Run(r.Context(), pageURL)
	if err != nil {
		s.feedErrorResponse(w, pageURL, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", feedCacheControl)
	w.Header().Set("X-Feed-Model", outcome.Model)
	w.Header().Set("X-Content-Source", outcome.Source)
	w.Header().Set("X-Content-Cache", cacheStatus(outcome.ContentCacheHit))
	w.Header().Set("X-Feed-Cache", cacheStatus(outcome.FeedCacheHit))
	w.Header().Set("X-Content-Fingerprint", fingerprint.Short(outcome.Fingerprint))
	if outcome.Items >= 0 {
		w.Header().Set("X-Feed-Items", strconv.Itoa(outcome.Items))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(outcome.XML))
}

// usageResponse writes the 400 usage message
func (s *Server) usageResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintln(w, usageLine)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
