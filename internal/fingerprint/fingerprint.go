// Package fingerprint derives deterministic cache keys from fetched page content.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLen is the number of hex characters exposed in diagnostic headers and logs.
const ShortLen = 16

// Hash returns the hex SHA-256 digest of the page URL joined to its extracted
// content with a ":" separator. The same URL and content always produce the
// same digest; any change to either produces a different one.
func Hash(url, content string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte(":"))
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// Short truncates a fingerprint for display. Full digests stay internal.
func Short(fp string) string {
	if len(fp) <= ShortLen {
		return fp
	}
	return fp[:ShortLen]
}
