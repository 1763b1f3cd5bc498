// Package sanitize repairs common XML escaping mistakes in generated feeds.
package sanitize

import "strings"

// namedEntities are the references the escaper recognizes and leaves alone.
var namedEntities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&apos;"}

// XML escapes characters that would make an RSS document ill-formed: bare
// ampersands anywhere, and angle brackets that sit in text content rather than
// acting as tag punctuation. Recognized entities and numeric character
// references are left untouched, so applying XML to its own output changes
// nothing.
func XML(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s) + len(s)/8)

	inTag := false
	var quote byte // open attribute-value delimiter, 0 outside quotes

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '&':
			if referenceAt(s, i) {
				result.WriteByte(c)
			} else {
				result.WriteString("&amp;")
			}
		case '<':
			if inTag {
				// Inside tag punctuation already; leave structure alone.
				result.WriteByte(c)
			} else if opensTag(s, i) {
				inTag = true
				result.WriteByte(c)
			} else {
				result.WriteString("&lt;")
			}
		case '>':
			if inTag && quote == 0 {
				inTag = false
				result.WriteByte(c)
			} else if inTag {
				// '>' inside a quoted attribute value is legal XML.
				result.WriteByte(c)
			} else {
				result.WriteString("&gt;")
			}
		case '"', '\'':
			if inTag {
				switch quote {
				case 0:
					quote = c
				case c:
					quote = 0
				}
			}
			result.WriteByte(c)
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}

// referenceAt reports whether the ampersand at s[i] already begins a
// recognized entity or a numeric character reference like &#8211; or &#x2014;.
func referenceAt(s string, i int) bool {
	rest := s[i:]
	for _, entity := range namedEntities {
		if strings.HasPrefix(rest, entity) {
			return true
		}
	}

	if !strings.HasPrefix(rest, "&#") {
		return false
	}
	rest = rest[2:]
	hex := false
	if len(rest) > 0 && (rest[0] == 'x' || rest[0] == 'X') {
		hex = true
		rest = rest[1:]
	}
	n := 0
	for n < len(rest) && isReferenceDigit(rest[n], hex) {
		n++
	}
	return n > 0 && n < len(rest) && rest[n] == ';'
}

func isReferenceDigit(c byte, hex bool) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if !hex {
		return false
	}
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// opensTag reports whether the '<' at s[i] starts tag punctuation: an element
// name, a close tag, a comment or CDATA section, or an XML declaration. A '<'
// followed by anything else is literal text.
func opensTag(s string, i int) bool {
	if i+1 >= len(s) {
		return false
	}
	c := s[i+1]
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '/', c == '!', c == '?', c == '_':
		return true
	}
	return false
}
