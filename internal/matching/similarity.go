package matching

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores two normalized strings in [0,1]: 1 for identical non-empty strings,
// 0 when either is empty.
type Similarity func(a, b string) float64

// Similarity algorithm names accepted by SimilarityByName
const (
	AlgorithmRatcliff    = "ratcliff"
	AlgorithmJaroWinkler = "jaro-winkler"
	AlgorithmLevenshtein = "levenshtein"
)

// SimilarityByName resolves a configured algorithm name. An empty name selects ratcliff.
func SimilarityByName(name string) (Similarity, error) {
	switch strings.ToLower(name) {
	case "", AlgorithmRatcliff:
		return RatcliffObershelp, nil
	case AlgorithmJaroWinkler:
		return JaroWinkler, nil
	case AlgorithmLevenshtein:
		return Levenshtein, nil
	default:
		return nil, fmt.Errorf("unknown similarity algorithm %q", name)
	}
}

// RatcliffObershelp returns the longest-matching-blocks ratio 2*M/T over runes
func RatcliffObershelp(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// JaroWinkler returns the Jaro-Winkler similarity
func JaroWinkler(a, b string) float64 {
	return edlibSimilarity(a, b, edlib.JaroWinkler)
}

// Levenshtein returns 1 - distance/maxLen
func Levenshtein(a, b string) float64 {
	return edlibSimilarity(a, b, edlib.Levenshtein)
}

func edlibSimilarity(a, b string, algo edlib.Algorithm) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	score, err := edlib.StringsSimilarity(a, b, algo)
	if err != nil {
		return 0
	}
	return float64(score)
}

// WordOverlap returns the share of the reference tokens found in the query together
// with the shared tokens. The reference set is the denominator, so a query carrying
// extra noise words still scores 1 when it contains the whole reference name.
func WordOverlap(query, reference TokenSet) (float64, []string) {
	if len(reference) == 0 {
		return 0, nil
	}
	common := reference.Intersect(query)
	return float64(len(common)) / float64(len(reference)), common
}

// Partial-match bonus constants
const (
	partialMinTokenLength = 4
	partialSubstringBonus = 0.3
	partialSimilarBonus   = 0.2
	partialSimilarCutoff  = 0.8
	partialBonusCap       = 0.5
)

// PartialBonus rewards token pairs that contain one another or are near spellings.
// Every pair of tokens at least four characters long adds 0.3 when one is a substring
// of the other, else 0.2 when sim exceeds 0.8. The total is capped at 0.5.
// Tokens are visited in the given order so the sum is reproducible.
func PartialBonus(query, reference []string, sim Similarity) float64 {
	bonus := 0.0
	for _, q := range query {
		if len(q) < partialMinTokenLength {
			continue
		}
		for _, r := range reference {
			if len(r) < partialMinTokenLength {
				continue
			}
			switch {
			case strings.Contains(q, r) || strings.Contains(r, q):
				bonus += partialSubstringBonus
			case sim(q, r) > partialSimilarCutoff:
				bonus += partialSimilarBonus
			}
			if bonus >= partialBonusCap {
				return partialBonusCap
			}
		}
	}
	return bonus
}
