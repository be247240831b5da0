// Package sanitize normalizes untrusted free-text input before it reaches
// storage: whitespace is trimmed, markup tags are stripped and characters
// meaningful to HTML rendering are escaped. Clean is idempotent, so values
// read back from storage can be passed through it again without corruption.
//
// Never apply Clean to secrets (passwords) or to values compared only by
// exact match.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// A tag opens with a letter or slash; a stray "<" followed by ">" is
	// ordinary text and gets escaped instead of stripped.
	tagRe    = regexp.MustCompile(`(?s)</?[a-zA-Z][^>]*>|<!--.*?-->`)
	entityRe = regexp.MustCompile(`^&(amp|lt|gt|quot|#39);`)
)

func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = tagRe.ReplaceAllString(s, "")
	s = escapeSpecial(s)
	return strings.TrimSpace(s)
}

// escapeSpecial escapes HTML metacharacters but leaves already-escaped
// entities alone, which keeps Clean idempotent.
func escapeSpecial(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if entityRe.MatchString(s[i:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
