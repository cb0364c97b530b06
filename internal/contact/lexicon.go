package contact

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// WordLists holds the keyword sets of one language.
type WordLists struct {
	Company []string `yaml:"company" validate:"dive,required,lowercase"`
	Title   []string `yaml:"title" validate:"dive,required,lowercase"`
	Address []string `yaml:"address" validate:"dive,required,lowercase"`
	Label   []string `yaml:"label" validate:"dive,required,lowercase"` // exclusion only, never a field value
}

// Lexicon is the versioned keyword configuration, keyed by language tag.
type Lexicon struct {
	Version   int                  `yaml:"version" validate:"gte=1"`
	Languages map[string]WordLists `yaml:"languages" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

// DefaultLexicon returns the embedded lexicon.
func DefaultLexicon() Lexicon {
	lex, err := LoadLexicon(bytes.NewReader(defaultLexiconYAML))
	if err != nil {
		panic(fmt.Sprintf("contact: embedded lexicon invalid: %v", err))
	}
	return lex
}

// LoadLexicon parses and validates a YAML lexicon.
func LoadLexicon(r io.Reader) (Lexicon, error) {
	var lex Lexicon
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lex); err != nil {
		return Lexicon{}, fmt.Errorf("decode lexicon: %w", err)
	}
	v := validator.New()
	if err := v.Struct(lex); err != nil {
		return Lexicon{}, fmt.Errorf("validate lexicon: %w", err)
	}
	// map values are structs; check their word lists one language at a time
	for _, tag := range lex.Tags() {
		if err := v.Struct(lex.Languages[tag]); err != nil {
			return Lexicon{}, fmt.Errorf("validate lexicon: language %q: %w", tag, err)
		}
	}
	return lex, nil
}

// Tags returns the language tags in sorted order.
func (l Lexicon) Tags() []string {
	tags := make([]string, 0, len(l.Languages))
	for tag := range l.Languages {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// merge unions the word lists of the selected languages. No tags selects all.
func (l Lexicon) merge(tags []string) (WordLists, error) {
	if len(tags) == 0 {
		tags = l.Tags()
	}
	var out WordLists
	for _, tag := range tags {
		wl, ok := l.Languages[tag]
		if !ok {
			return WordLists{}, fmt.Errorf("unknown lexicon language %q", tag)
		}
		out.Company = append(out.Company, wl.Company...)
		out.Title = append(out.Title, wl.Title...)
		out.Address = append(out.Address, wl.Address...)
		out.Label = append(out.Label, wl.Label...)
	}
	return out, nil
}

// keywordSet matches any of its words as a whole word, ignoring case.
type keywordSet struct {
	re *regexp.Regexp
}

func (k keywordSet) match(s string) bool {
	return k.re != nil && k.re.MatchString(s)
}

func compileKeywords(words []string) (keywordSet, error) {
	seen := make(map[string]struct{}, len(words))
	uniq := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}
	if len(uniq) == 0 {
		return keywordSet{}, nil
	}
	// longest first so multi-word entries win over their prefixes
	sort.SliceStable(uniq, func(i, j int) bool { return len(uniq[i]) > len(uniq[j]) })

	alts := make([]string, len(uniq))
	for i, w := range uniq {
		parts := strings.Fields(w)
		for j := range parts {
			parts[j] = regexp.QuoteMeta(parts[j])
		}
		pat := strings.Join(parts, `\s+`)
		// \b only makes sense next to a word character: "jln." must still match "Jln. Ampang"
		if isWordByte(w[0]) {
			pat = `\b` + pat
		}
		if isWordByte(w[len(w)-1]) {
			pat += `\b`
		}
		alts[i] = pat
	}
	re, err := regexp.Compile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
	if err != nil {
		return keywordSet{}, fmt.Errorf("compile keywords: %w", err)
	}
	return keywordSet{re: re}, nil
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
