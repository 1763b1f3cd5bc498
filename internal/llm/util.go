// Package llm - util.go provides shared utilities for completion response processing.
package llm

import "strings"

// CleanXMLBlock removes markdown code block wrappers from XML responses.
// Models often wrap output in ```xml ... ``` blocks even when instructed not to.
func CleanXMLBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```xml ... ``` blocks
	if strings.HasPrefix(text, "```xml") {
		text = strings.TrimPrefix(text, "```xml")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line, but never a line that
		// already opens the document
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "<") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
