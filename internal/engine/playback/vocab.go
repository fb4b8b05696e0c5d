package playback

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

// Vocabulary category names used by the pipeline.
const (
	VocabYouTube     = "youtube"
	VocabMusic       = "music"
	VocabPodcast     = "podcast"
	VocabDocumentary = "documentary"
)

//go:embed default_vocab.yaml
var defaultVocabYAML []byte

// Matcher answers whether text contains a term of a named category,
// and strips those terms from text.
type Matcher interface {
	Match(text, category string) bool
	Remove(text, category string) string
}

// Vocabulary is a Matcher backed by per-category term lists.
type Vocabulary struct {
	terms map[string][]*regexp.Regexp // longest term first
}

// NewVocabulary compiles a term list per category.
func NewVocabulary(terms map[string][]string) (*Vocabulary, error) {
	v := &Vocabulary{terms: make(map[string][]*regexp.Regexp, len(terms))}
	for category, list := range terms {
		sorted := make([]string, 0, len(list))
		for _, t := range list {
			if t = engine.CollapseSpaces(strings.ToLower(t)); t != "" {
				sorted = append(sorted, t)
			}
		}
		// Longer terms first so "full album" is removed before "album".
		sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

		res := make([]*regexp.Regexp, 0, len(sorted))
		for _, t := range sorted {
			words := strings.Fields(t)
			for i, w := range words {
				words[i] = regexp.QuoteMeta(w)
			}
			re, err := regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("vocab %s term %q: %w", category, t, err)
			}
			res = append(res, re)
		}
		v.terms[strings.ToLower(category)] = res
	}
	return v, nil
}

// ParseVocabulary decodes a YAML document mapping category → terms.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var terms map[string][]string
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	return NewVocabulary(terms)
}

// DefaultVocabulary returns the embedded English vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(defaultVocabYAML)
	if err != nil {
		panic(err) // embedded file is part of the build
	}
	return v
}

// LoadVocabulary reads a YAML vocabulary file; empty path yields the defaults.
// Categories missing from the file keep their default terms.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	custom, err := ParseVocabulary(data)
	if err != nil {
		return nil, err
	}
	v := DefaultVocabulary()
	for category, res := range custom.terms {
		v.terms[category] = res
	}
	return v, nil
}

// Match reports whether text contains any term of category.
func (v *Vocabulary) Match(text, category string) bool {
	for _, re := range v.terms[strings.ToLower(category)] {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Remove deletes every term of category from text and collapses whitespace.
func (v *Vocabulary) Remove(text, category string) string {
	for _, re := range v.terms[strings.ToLower(category)] {
		text = re.ReplaceAllString(text, " ")
	}
	return engine.CollapseSpaces(text)
}

// Categories lists the loaded category names, sorted.
func (v *Vocabulary) Categories() []string {
	out := make([]string, 0, len(v.terms))
	for c := range v.terms {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
