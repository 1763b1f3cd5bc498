package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/pagefeed/internal/extract"
	"github.com/jonathan/pagefeed/internal/feed"
)

// feedErrorResponse maps a pipeline failure onto the HTTP contract. Extraction
// failures are upstream problems (502), generation failures are ours (500).
func (s *Server) feedErrorResponse(w http.ResponseWriter, pageURL string, err error) {
	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		log.Printf("[server] extraction failed for %s: %v", pageURL, err)
		s.jsonResponse(w, http.StatusBadGateway, map[string]any{
			"error":   "extraction_failed",
			"message": extractErr.Message,
			"url":     pageURL,
		})
		return
	}

	var genErr *feed.GenerationError
	if errors.As(err, &genErr) {
		log.Printf("[server] generation failed for %s: %v", pageURL, err)
		status := genErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"error":   "generation_failed",
			"message": genErr.Message,
			"status":  status,
		})
		return
	}

	log.Printf("[server] feed request for %s failed: %v", pageURL, err)
	s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
		"error":   "internal_error",
		"message": "internal server error",
	})
}
