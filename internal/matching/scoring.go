package matching

import (
	"sort"

	"github.com/scanify/backend/internal/domain"
)

// Default acceptance thresholds and candidate counts
const (
	DefaultStockistThreshold = 0.40
	DefaultProductThreshold  = 0.55
	DefaultStockistTopN      = 3
	DefaultProductTopN       = 3
	DefaultSuggestionCount   = 5
	DefaultCityScore         = 0.55
	DefaultCityFallbackBelow = 0.5
	DefaultConcurrency       = 4
)

// StockistWeights are the tier-2 filename weights and categorical bonuses
type StockistWeights struct {
	Whole        float64
	Overlap      float64
	Partial      float64
	MultiCommon  float64 // two or more shared significant words
	SingleUnique float64 // the only significant reference word is shared
	SetEqual     float64
}

// DefaultStockistWeights returns 0.4/0.4/0.2 with +0.15, +0.2 and +0.2 bonuses
func DefaultStockistWeights() StockistWeights {
	return StockistWeights{
		Whole:        0.4,
		Overlap:      0.4,
		Partial:      0.2,
		MultiCommon:  0.15,
		SingleUnique: 0.2,
		SetEqual:     0.2,
	}
}

// ProductWeights combine the product name and pack signals
type ProductWeights struct {
	Jaccard float64
	Whole   float64
	Name    float64
	Pack    float64
}

// DefaultProductWeights returns name = 0.6 jaccard + 0.4 whole, total = 0.8 name + 0.2 pack
func DefaultProductWeights() ProductWeights {
	return ProductWeights{Jaccard: 0.6, Whole: 0.4, Name: 0.8, Pack: 0.2}
}

// scoredCandidate is one reference record with its score, in reference order
type scoredCandidate struct {
	index int
	code  string
	name  string
	score float64
}

// bestOf keeps the first-seen highest score. Later candidates replace it only when
// strictly greater, so reference order decides ties.
type bestOf struct {
	found bool
	best  scoredCandidate
}

func (b *bestOf) offer(c scoredCandidate) bool {
	if b.found && c.score <= b.best.score {
		return false
	}
	b.found = true
	b.best = c
	return true
}

// decide applies the inclusive threshold. An accepted result always carries the
// record code and a score at or above the threshold.
func decide(query string, b bestOf, threshold float64, strategy domain.MatchStrategy) domain.MatchResult {
	if !b.found || b.best.code == "" || b.best.score < threshold {
		result := domain.MatchResult{Query: query, Reason: domain.ReasonNoMatch}
		if b.found {
			result.Score = clampScore(b.best.score)
		}
		return result
	}
	return domain.MatchResult{
		Query:    query,
		Accepted: true,
		Code:     b.best.code,
		Name:     b.best.name,
		Score:    clampScore(b.best.score),
		Strategy: strategy,
	}
}

// clampScore bounds a combined score to [0,1]; bonuses can push raw scores past 1
func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// topCandidates returns the n highest scores, keeping reference order among equals
func topCandidates(scored []scoredCandidate, n int) []domain.Candidate {
	ranked := make([]scoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]domain.Candidate, 0, n)
	for _, c := range ranked[:n] {
		out = append(out, domain.Candidate{Code: c.code, Name: c.name, Score: clampScore(c.score)})
	}
	return out
}
