package fingerprint

import (
	"strings"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	first := Hash("https://example.com/blog", "# Heading\n\nBody text")
	second := Hash("https://example.com/blog", "# Heading\n\nBody text")

	if first != second {
		t.Errorf("Hash() not deterministic: %s != %s", first, second)
	}
}

func TestHashShape(t *testing.T) {
	fp := Hash("https://example.com", "content")

	if len(fp) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(fp))
	}
	if strings.ToLower(fp) != fp {
		t.Errorf("Hash() = %q, want lowercase hex", fp)
	}
	for _, r := range fp {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("Hash() contains non-hex character %q", r)
		}
	}
}

func TestHashSensitivity(t *testing.T) {
	base := Hash("https://example.com/blog", "original content")

	tests := []struct {
		name    string
		url     string
		content string
	}{
		{"content changed", "https://example.com/blog", "updated content"},
		{"content appended", "https://example.com/blog", "original content."},
		{"url changed", "https://example.com/news", "original content"},
		{"url trailing slash", "https://example.com/blog/", "original content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hash(tt.url, tt.content); got == base {
				t.Errorf("Hash(%q, %q) collided with base fingerprint", tt.url, tt.content)
			}
		})
	}
}

func TestHashSeparatorMatters(t *testing.T) {
	// The separator keeps (url, content) unambiguous: moving a byte across the
	// boundary must change the digest.
	a := Hash("https://example.com/a", "bc")
	b := Hash("https://example.com/ab", "c")

	if a == b {
		t.Error("Hash() ambiguous across url/content boundary")
	}
}

func TestShort(t *testing.T) {
	fp := Hash("https://example.com", "content")

	short := Short(fp)
	if len(short) != ShortLen {
		t.Errorf("Short() length = %d, want %d", len(short), ShortLen)
	}
	if !strings.HasPrefix(fp, short) {
		t.Errorf("Short() = %q is not a prefix of %q", short, fp)
	}

	if got := Short("abc"); got != "abc" {
		t.Errorf("Short(%q) = %q, want input unchanged", "abc", got)
	}
}
