package matching

import (
	"regexp"
	"strings"
)

var (
	packSizeTokenRegex = regexp.MustCompile(`^\d+(\.\d+)?(ML|GM|G|MG|KG)$`)
	multiplierRegex    = regexp.MustCompile(`^\d+X\d+S?$`)
)

// defaultStopWords are company-form and trade words that carry no identity in stockist names
var defaultStopWords = []string{
	"LLP", "PVT", "LTD", "LIMITED", "CO", "COMPANY", "AND", "THE", "A", "AN",
	"PHARMA", "PHARMACEUTICAL", "PHARMACEUTICALS",
	"DIST", "DISTRIBUTOR", "DISTRIBUTORS",
	"TRADERS", "ENTERPRISES", "AGENCY", "AGENCIES",
}

// defaultSynonyms folds dosage-form spellings onto one short code
var defaultSynonyms = map[string]string{
	"TAB": "TAB", "TABS": "TAB", "TABLET": "TAB", "TABLETS": "TAB",
	"CAP": "CAP", "CAPS": "CAP", "CAPSULE": "CAP", "CAPSULES": "CAP",
	"OINT": "OINT", "OINTMENT": "OINT",
	"POWDER": "PWD",
	"CREAM":  "CRM",
	"DROP":   "DROP", "DROPS": "DROP",
	"LIQ": "LIQ", "LIQUID": "LIQ",
	"SOL": "SOL", "SOLN": "SOL", "SOLUTION": "SOL",
	"GARGLE": "GARGLE", "GARGLES": "GARGLE",
}

// Vocabulary holds the stop-word set and synonym table used by the tokenizers
type Vocabulary struct {
	stopWords map[string]struct{}
	synonyms  map[string]string
}

// DefaultVocabulary returns the built-in stop words and dosage-form synonyms
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(nil, nil)
}

// NewVocabulary extends the defaults with extra stop words and synonyms.
// Entries are normalized, so callers may pass any case.
func NewVocabulary(extraStopWords []string, extraSynonyms map[string]string) Vocabulary {
	v := Vocabulary{
		stopWords: make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords)),
		synonyms:  make(map[string]string, len(defaultSynonyms)+len(extraSynonyms)),
	}
	for _, w := range defaultStopWords {
		v.stopWords[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		if w = Normalize(w); w != "" {
			v.stopWords[w] = struct{}{}
		}
	}
	for from, to := range defaultSynonyms {
		v.synonyms[from] = to
	}
	for from, to := range extraSynonyms {
		from, to = Normalize(from), Normalize(to)
		if from != "" && to != "" {
			v.synonyms[from] = to
		}
	}
	return v
}

// IsStopWord reports whether a normalized token is a stop word
func (v Vocabulary) IsStopWord(token string) bool {
	_, ok := v.stopWords[token]
	return ok
}

// Canonical maps a token through the synonym table; unmapped tokens pass through
func (v Vocabulary) Canonical(token string) string {
	if c, ok := v.synonyms[token]; ok {
		return c
	}
	return token
}

// NameTokens normalizes a product name and returns its synonym-folded token set.
// Pure pack-size fragments such as 10ML, 0.5ML or 2X15S are dropped.
func (v Vocabulary) NameTokens(text string) TokenSet {
	words := strings.Fields(normalizeKeepDecimals(text))
	set := make(TokenSet, len(words))
	for _, w := range words {
		if packSizeTokenRegex.MatchString(w) || multiplierRegex.MatchString(w) {
			continue
		}
		set[v.Canonical(w)] = struct{}{}
	}
	return set
}

// significantWords returns the distinct words of normalized text that are at least
// minLen long and not stop words, in their original order.
func (v Vocabulary) significantWords(normalized string, minLen int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if len(w) < minLen || v.IsStopWord(w) || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// longWords returns the distinct words longer than one character, in order
func longWords(normalized string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if len(w) <= 1 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
