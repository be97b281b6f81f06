package matching

import (
	"sort"
	"strings"
)

// TokenSet is an unordered set of semantic tokens
type TokenSet map[string]struct{}

// NewTokenSet builds a set from the given tokens, skipping empty strings
func NewTokenSet(tokens ...string) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, t := range tokens {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Has reports whether the token is in the set
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of tokens
func (s TokenSet) Len() int {
	return len(s)
}

// Intersect returns the tokens present in both sets, sorted
func (s TokenSet) Intersect(other TokenSet) []string {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	var common []string
	for t := range small {
		if large.Has(t) {
			common = append(common, t)
		}
	}
	sort.Strings(common)
	return common
}

// Equal reports whether both sets hold exactly the same tokens
func (s TokenSet) Equal(other TokenSet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Jaccard returns |A ∩ B| / |A ∪ B|, or 0 when either set is empty.
func (s TokenSet) Jaccard(other TokenSet) float64 {
	if len(s) == 0 || len(other) == 0 {
		return 0
	}
	common := len(s.Intersect(other))
	union := len(s) + len(other) - common
	return float64(common) / float64(union)
}

// Sorted returns the tokens in lexical order
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s TokenSet) String() string {
	return "{" + strings.Join(s.Sorted(), " ") + "}"
}
