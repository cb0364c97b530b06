package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Disqualified is the score of a line with no letters.
const Disqualified = -999

var (
	reCapitalizedWords = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)
	reLocalSeparators  = regexp.MustCompile(`[._-]+`)
	reDigits           = regexp.MustCompile(`\d+`)
)

// ScoreName rates how much line looks like a personal name.
func (e *Extractor) ScoreName(line string) int {
	if !hasLetter(line) {
		return Disqualified
	}
	score := 0
	if hasDigit(line) {
		score -= 3
	}
	words := len(strings.Fields(line))
	if words >= 2 && words <= 4 {
		score += 3
	}
	if isAllUpper(line) {
		if words <= 4 {
			score += 2
		} else {
			score -= 2
		}
	}
	if reCapitalizedWords.MatchString(line) {
		score += 2
	}
	if !e.hasAnyKeyword(line) {
		score += 2
	}
	return score
}

// pickName returns the best scoring line not marked excluded. Ties keep the
// earliest line.
func (e *Extractor) pickName(lines []string, excluded []bool) string {
	best, bestScore := "", Disqualified
	for i, l := range lines {
		if excluded[i] {
			continue
		}
		if s := e.ScoreName(l); s > bestScore {
			best, bestScore = l, s
		}
	}
	return best
}

// NameFromEmail builds a display name from an email local part, e.g.
// "jane.doe42@x.com" becomes "Jane Doe". It returns "" when nothing usable
// remains.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = reLocalSeparators.ReplaceAllString(local, " ")
	local = strings.TrimSpace(reDigits.ReplaceAllString(local, ""))
	if local == "" {
		return ""
	}
	upper, lower := cases.Upper(language.Und), cases.Lower(language.Und)
	words := strings.Fields(local)
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	name := strings.Join(words, " ")
	if strings.Contains(name, "@") {
		return ""
	}
	return name
}
