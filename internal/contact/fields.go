package contact

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxCompanyCapsLength = 60

// HasCompanyKeyword reports whether line carries a legal-entity suffix.
func (e *Extractor) HasCompanyKeyword(line string) bool { return e.company.match(line) }

// HasTitleKeyword reports whether line carries a job-title term.
func (e *Extractor) HasTitleKeyword(line string) bool { return e.title.match(line) }

// HasAddressKeyword reports whether line carries a locality or street term.
func (e *Extractor) HasAddressKeyword(line string) bool { return e.address.match(line) }

// HasLabelKeyword reports whether line carries a field label such as "tel".
func (e *Extractor) HasLabelKeyword(line string) bool { return e.label.match(line) }

// hasAnyKeyword covers the sets that cost a name candidate its keyword bonus.
func (e *Extractor) hasAnyKeyword(line string) bool {
	return e.HasCompanyKeyword(line) || e.HasTitleKeyword(line) || e.HasLabelKeyword(line)
}

// detectCompany returns the index of the company line or -1. The all-caps
// fallback skips label lines and lines holding one of tokens, so "TEL: ..."
// or "H/P: +60 ..." is never taken for a company.
func (e *Extractor) detectCompany(lines []string, tokens []string) int {
	for i, l := range lines {
		if e.HasCompanyKeyword(l) {
			return i
		}
	}
	for i, l := range lines {
		if e.HasLabelKeyword(l) || containsAny(l, tokens) {
			continue
		}
		if isAllUpper(l) && utf8.RuneCountInString(l) < maxCompanyCapsLength {
			return i
		}
	}
	return -1
}

// detectTitle returns the index of the title line or -1.
func (e *Extractor) detectTitle(lines []string) int {
	for i, l := range lines {
		if e.HasTitleKeyword(l) {
			return i
		}
	}
	return -1
}

// detectAddress returns the half-open run [start, end) of address lines, or
// (-1, -1). The run opens on the first address keyword line and keeps
// absorbing lines with a keyword or a digit.
func (e *Extractor) detectAddress(lines []string) (int, int) {
	for i, l := range lines {
		if !e.HasAddressKeyword(l) {
			continue
		}
		end := i + 1
		for end < len(lines) && (e.HasAddressKeyword(lines[end]) || hasDigit(lines[end])) {
			end++
		}
		return i, end
	}
	return -1, -1
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// isAllUpper is true for a line with letters and no lower-case letter.
func isAllUpper(s string) bool {
	return hasLetter(s) && strings.IndexFunc(s, unicode.IsLower) < 0
}
