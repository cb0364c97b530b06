package contact

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLineLength is the longest line, in runes, still treated as card content.
const MaxLineLength = 160

// NormalizeLines splits text into trimmed, non-empty, de-duplicated lines of
// at most MaxLineLength runes, in first-occurrence order.
func NormalizeLines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, l := range raw {
		// strip the CR of CRLF along with any other surrounding whitespace
		l = strings.TrimSpace(norm.NFC.String(l))
		if l == "" || utf8.RuneCountInString(l) > MaxLineLength {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
