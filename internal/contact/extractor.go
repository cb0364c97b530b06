package contact

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputBytes bounds the text the extractor looks at.
const DefaultMaxInputBytes = 64 << 10

// Extractor turns OCR text of a business card into a Record. It holds only
// compiled patterns and is safe for concurrent use.
type Extractor struct {
	company keywordSet
	title   keywordSet
	address keywordSet
	label   keywordSet

	maxInput int
	version  int
}

type options struct {
	lexicon   *Lexicon
	languages []string
	maxInput  int
}

// Option configures an Extractor.
type Option func(*options)

// WithLexicon replaces the embedded keyword lexicon.
func WithLexicon(lex Lexicon) Option {
	return func(o *options) { o.lexicon = &lex }
}

// WithLanguages restricts keyword matching to the given language tags.
func WithLanguages(tags ...string) Option {
	return func(o *options) { o.languages = tags }
}

// WithMaxInputBytes sets how much of the input is examined. Raw always keeps
// the full text. n <= 0 keeps the default.
func WithMaxInputBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxInput = n
		}
	}
}

// NewExtractor compiles the keyword sets of the configured lexicon.
func NewExtractor(opts ...Option) (*Extractor, error) {
	o := options{maxInput: DefaultMaxInputBytes}
	for _, opt := range opts {
		opt(&o)
	}
	lex := o.lexicon
	if lex == nil {
		def := DefaultLexicon()
		lex = &def
	}
	words, err := lex.merge(o.languages)
	if err != nil {
		return nil, err
	}

	e := &Extractor{maxInput: o.maxInput, version: lex.Version}
	if e.company, err = compileKeywords(words.Company); err != nil {
		return nil, err
	}
	if e.title, err = compileKeywords(words.Title); err != nil {
		return nil, err
	}
	if e.address, err = compileKeywords(words.Address); err != nil {
		return nil, err
	}
	if e.label, err = compileKeywords(words.Label); err != nil {
		return nil, err
	}
	return e, nil
}

// LexiconVersion is the version of the lexicon the extractor was built from.
func (e *Extractor) LexiconVersion() int { return e.version }

// MaxInputBytes is the processing cap in bytes.
func (e *Extractor) MaxInputBytes() int { return e.maxInput }

var defaultExtractor = mustDefault()

func mustDefault() *Extractor {
	e, err := NewExtractor()
	if err != nil {
		panic("contact: " + err.Error())
	}
	return e
}

// Extract runs the default extractor.
func Extract(text string) Record {
	return defaultExtractor.Extract(text)
}

// Extract classifies the lines of text into contact fields. It never fails;
// fields it cannot find are left empty.
func (e *Extractor) Extract(text string) Record {
	lines := NormalizeLines(truncate(text, e.maxInput))
	joined := strings.Join(lines, "\n")

	emails := FindEmails(joined)
	phones := FindPhones(joined)
	urls := FindURLs(joined)

	rec := Record{
		Phone:   SelectPhone(phones),
		Email:   SelectEmail(emails),
		Website: SelectURL(urls),
		Raw:     text,
	}

	tokens := make([]string, 0, len(emails)+len(phones))
	tokens = append(append(tokens, emails...), phones...)

	excluded := make([]bool, len(lines))
	if i := e.detectCompany(lines, tokens); i >= 0 {
		rec.Company = lines[i]
		excluded[i] = true
	}
	if i := e.detectTitle(lines); i >= 0 {
		rec.Title = lines[i]
		excluded[i] = true
	}
	if start, end := e.detectAddress(lines); start >= 0 {
		rec.Address = strings.Join(lines[start:end], ", ")
		for i := start; i < end; i++ {
			excluded[i] = true
		}
	}

	for i, l := range lines {
		if excluded[i] {
			continue
		}
		if containsAny(l, tokens) || e.HasLabelKeyword(l) || e.HasCompanyKeyword(l) {
			excluded[i] = true
		}
	}

	rec.Name = e.pickName(lines, excluded)
	if rec.Name == "" && rec.Email != "" {
		rec.Name = NameFromEmail(rec.Email)
	}
	return rec
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
