// Package feed turns extracted page content into RSS 2.0 documents by driving
// an ordered list of model candidates with a fixed prompt and deterministic
// decoding settings.
package feed

import (
	"fmt"
	"strings"

	"github.com/jonathan/pagefeed/internal/llm"
)

// Candidate names one model in the fallback order.
type Candidate struct {
	Provider string
	Model    string
}

func (c Candidate) String() string {
	return c.Provider + ":" + c.Model
}

// ParseCandidate reads a "provider:model" reference. A bare model name selects
// the OpenAI-compatible provider.
func ParseCandidate(spec string) (Candidate, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Candidate{}, fmt.Errorf("empty model reference")
	}

	provider, model, found := strings.Cut(spec, ":")
	if !found {
		return Candidate{Provider: llm.ProviderOpenAI, Model: spec}, nil
	}

	provider = strings.TrimSpace(provider)
	model = strings.TrimSpace(model)
	if provider == "" || model == "" {
		return Candidate{}, fmt.Errorf("malformed model reference %q", spec)
	}
	switch provider {
	case llm.ProviderOpenAI, llm.ProviderGemini:
		return Candidate{Provider: provider, Model: model}, nil
	default:
		return Candidate{}, fmt.Errorf("unknown provider %q in model reference %q", provider, spec)
	}
}

// ParseCandidates reads an ordered list of model references, skipping empty
// entries so trailing commas in configuration stay harmless.
func ParseCandidates(specs []string) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(specs))
	for _, spec := range specs {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		candidate, err := ParseCandidate(spec)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}
