package contact

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)

	// Malaysian form first, then a generic "+<cc>" international fallback.
	// Separators are horizontal only so a number never spans two lines.
	rePhone = regexp.MustCompile(
		`(?:(?:\+?60|0)[-\t ]?)?(?:\(?\d{2,4}\)?[-\t ]?)?\d{3,4}[-\t ]?\d{3,4}` +
			`|\+\d{1,4}[-\t ]?\d{3,4}[-\t ]?\d{3,4}`)

	reURL = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?[a-z0-9.-]+\.[a-z]{2,}(?:/[\w#?=&.-]*)?`)

	reMobile    = regexp.MustCompile(`^\+?6?0?1\d`)
	rePhoneJunk = regexp.MustCompile(`[^\d+]`)
)

// FindEmails returns every email-shaped substring in order of appearance.
func FindEmails(text string) []string {
	return reEmail.FindAllString(text, -1)
}

// FindPhones returns every phone-shaped substring in order of appearance,
// duplicates included.
func FindPhones(text string) []string {
	return rePhone.FindAllString(text, -1)
}

// FindURLs returns URL-shaped substrings, skipping any that is an email or
// lies inside one (an email's domain is not a website).
func FindURLs(text string) []string {
	emailSpans := reEmail.FindAllStringIndex(text, -1)
	var out []string
	for _, span := range reURL.FindAllStringIndex(text, -1) {
		u := text[span[0]:span[1]]
		if reEmail.MatchString(u) || overlapsAny(span, emailSpans) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func overlapsAny(span []int, others [][]int) bool {
	for _, o := range others {
		if span[0] < o[1] && o[0] < span[1] {
			return true
		}
	}
	return false
}

// PhoneDigits reduces a phone match to digits, keeping a leading "+".
func PhoneDigits(phone string) string {
	return rePhoneJunk.ReplaceAllString(phone, "")
}

// IsMobile reports whether a phone match carries a Malaysian mobile prefix.
func IsMobile(phone string) bool {
	return reMobile.MatchString(PhoneDigits(phone))
}

// SelectPhone prefers the first mobile number, then the first match.
func SelectPhone(phones []string) string {
	for _, p := range phones {
		if IsMobile(p) {
			return p
		}
	}
	if len(phones) > 0 {
		return phones[0]
	}
	return ""
}

// SelectEmail returns the first email, lower-cased.
func SelectEmail(emails []string) string {
	if len(emails) == 0 {
		return ""
	}
	return strings.ToLower(emails[0])
}

// SelectURL returns the first URL.
func SelectURL(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
