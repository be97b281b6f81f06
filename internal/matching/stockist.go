package matching

import (
	"fmt"
	"strings"

	"github.com/scanify/backend/internal/domain"
)

// StockistConfig holds configuration for the filename matcher.
// Zero values fall back to the defaults.
type StockistConfig struct {
	Threshold         float64
	TopN              int
	SuggestionCount   int
	CityScore         float64
	CityFallbackBelow float64
	Weights           StockistWeights
	Similarity        Similarity
	Vocabulary        Vocabulary
	Sink              DiagnosticSink
}

// DefaultStockistConfig returns the stock thresholds, weights and vocabulary
func DefaultStockistConfig() StockistConfig {
	return StockistConfig{
		Threshold:         DefaultStockistThreshold,
		TopN:              DefaultStockistTopN,
		SuggestionCount:   DefaultSuggestionCount,
		CityScore:         DefaultCityScore,
		CityFallbackBelow: DefaultCityFallbackBelow,
		Weights:           DefaultStockistWeights(),
		Similarity:        RatcliffObershelp,
		Vocabulary:        DefaultVocabulary(),
		Sink:              NopSink{},
	}
}

// StockistMatcher identifies the stockist a statement file belongs to from its filename
type StockistMatcher struct {
	cfg StockistConfig
}

// NewStockistMatcher creates a filename matcher with the given configuration
func NewStockistMatcher(cfg StockistConfig) *StockistMatcher {
	def := DefaultStockistConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.SuggestionCount <= 0 {
		cfg.SuggestionCount = def.SuggestionCount
	}
	if cfg.CityScore <= 0 {
		cfg.CityScore = def.CityScore
	}
	if cfg.CityFallbackBelow <= 0 {
		cfg.CityFallbackBelow = def.CityFallbackBelow
	}
	if cfg.Weights == (StockistWeights{}) {
		cfg.Weights = def.Weights
	}
	if cfg.Similarity == nil {
		cfg.Similarity = def.Similarity
	}
	if cfg.Vocabulary.stopWords == nil {
		cfg.Vocabulary = def.Vocabulary
	}
	if cfg.Sink == nil {
		cfg.Sink = def.Sink
	}
	return &StockistMatcher{cfg: cfg}
}

// Threshold returns the acceptance threshold in use
func (m *StockistMatcher) Threshold() float64 {
	return m.cfg.Threshold
}

// Prepare validates stockists and builds the snapshot used by Match.
// Returns domain.ErrEmptyReferenceSet when no usable stockist remains.
func (m *StockistMatcher) Prepare(stockists []domain.Stockist) (*StockistSet, error) {
	return prepareStockists(stockists, m.cfg.Vocabulary, m.cfg.Sink)
}

// filenameQuery is the cleaned filename with its derived token forms
type filenameQuery struct {
	raw         string
	stem        string
	cleaned     string
	tokens      TokenSet
	filtered    []string
	filteredSet TokenSet
	wholeText   string
}

func (m *StockistMatcher) newQuery(filename string) filenameQuery {
	stem := filenameStem(filename)
	cleaned := CleanFilename(filename)
	filtered := m.cfg.Vocabulary.significantWords(cleaned, 3)
	wholeText := strings.Join(filtered, " ")
	if wholeText == "" {
		wholeText = cleaned
	}
	return filenameQuery{
		raw:         filename,
		stem:        " " + stem + " ",
		cleaned:     cleaned,
		tokens:      m.cfg.Vocabulary.FilenameTokens(cleaned),
		filtered:    filtered,
		filteredSet: NewTokenSet(filtered...),
		wholeText:   wholeText,
	}
}

// hasCode reports whether a normalized stockist code appears in the cleaned filename,
// or as whole words in the stem before numbers and noise words were stripped.
func (q filenameQuery) hasCode(code string) bool {
	if code == "" {
		return false
	}
	return strings.Contains(q.cleaned, code) || strings.Contains(q.stem, " "+code+" ")
}

// Match resolves a statement filename against the stockist set.
//
// An exact code in the filename wins outright with score 1, even when the rest of the
// name cleans down to nothing. Otherwise every stockist is scored on whole-name
// similarity, significant-word overlap and a partial spelling bonus; when that stays
// weak, a stockist whose city and one distinctive name word both appear in the filename
// gets a fixed city score. The best candidate is accepted at or above the threshold.
// A miss is a result, not an error; only an empty set returns an error.
func (m *StockistMatcher) Match(filename string, set *StockistSet) (domain.MatchResult, error) {
	if set.Len() == 0 {
		return domain.MatchResult{Query: filename}, fmt.Errorf("%w: stockists", domain.ErrEmptyReferenceSet)
	}

	q := m.newQuery(filename)
	for _, rec := range set.records {
		if q.hasCode(rec.code) {
			return domain.MatchResult{
				Query:    filename,
				Accepted: true,
				Code:     rec.record.Code,
				Name:     rec.record.Name,
				Score:    1,
				Strategy: domain.StrategyExact,
			}, nil
		}
	}

	if len(q.cleaned) < minCleanedLength {
		m.cfg.Sink.Rejected(Rejection{
			Matcher: MatcherStockist,
			Query:   filename,
			Cleaned: q.cleaned,
			Reason:  domain.ReasonTooShort,
		})
		return domain.MatchResult{Query: filename, Reason: domain.ReasonTooShort}, nil
	}

	var best bestOf
	for i, rec := range set.records {
		best.offer(scoredCandidate{index: i, code: rec.record.Code, name: rec.record.Name, score: m.fuzzyScore(q, rec)})
	}

	strategy := domain.StrategyFuzzy
	if best.best.score < m.cfg.CityFallbackBelow {
		for i, rec := range set.records {
			if !m.cityMatches(q, rec) {
				continue
			}
			if best.offer(scoredCandidate{index: i, code: rec.record.Code, name: rec.record.Name, score: m.cfg.CityScore}) {
				strategy = domain.StrategyCity
			}
		}
	}

	result := decide(filename, best, m.cfg.Threshold, strategy)
	if !result.Accepted {
		result.TopCandidates = m.rankByName(q, set, m.cfg.TopN)
		m.cfg.Sink.Rejected(Rejection{
			Matcher:    MatcherStockist,
			Query:      filename,
			Cleaned:    q.cleaned,
			Reason:     result.Reason,
			BestCode:   best.best.code,
			BestName:   best.best.name,
			BestScore:  result.Score,
			Candidates: result.TopCandidates,
		})
	}
	return result, nil
}

// Suggest returns the n stockists whose names read most like the filename.
// n <= 0 uses the configured suggestion count.
func (m *StockistMatcher) Suggest(filename string, set *StockistSet, n int) ([]domain.Candidate, error) {
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: stockists", domain.ErrEmptyReferenceSet)
	}
	if n <= 0 {
		n = m.cfg.SuggestionCount
	}
	q := m.newQuery(filename)
	if len(q.cleaned) < minCleanedLength {
		return []domain.Candidate{}, nil
	}
	return m.rankByName(q, set, n), nil
}

// fuzzyScore is the weighted tier-2 score plus categorical bonuses
func (m *StockistMatcher) fuzzyScore(q filenameQuery, rec preparedStockist) float64 {
	w := m.cfg.Weights

	whole := m.cfg.Similarity(q.wholeText, rec.wholeText)
	overlap, common := WordOverlap(q.filteredSet, rec.filteredSet)
	partial := PartialBonus(q.filtered, rec.filtered, m.cfg.Similarity)

	score := w.Whole*whole + w.Overlap*overlap + w.Partial*partial

	switch {
	case len(common) >= 2:
		score += w.MultiCommon
	case len(common) == 1 && rec.filteredSet.Len() == 1:
		score += w.SingleUnique
	}

	if q.filteredSet.Len() > 0 && q.filteredSet.Equal(rec.filteredSet) {
		score += w.SetEqual
	}
	return score
}

// cityMatches requires the stockist city and one distinctive name word in the filename
func (m *StockistMatcher) cityMatches(q filenameQuery, rec preparedStockist) bool {
	if len(rec.city) <= 3 || !strings.Contains(q.cleaned, rec.city) {
		return false
	}
	for w := range rec.cityWords {
		if q.tokens.Has(w) {
			return true
		}
	}
	return false
}

// rankByName orders stockists by whole-name similarity alone
func (m *StockistMatcher) rankByName(q filenameQuery, set *StockistSet, n int) []domain.Candidate {
	scored := make([]scoredCandidate, len(set.records))
	for i, rec := range set.records {
		scored[i] = scoredCandidate{
			index: i,
			code:  rec.record.Code,
			name:  rec.record.Name,
			score: m.cfg.Similarity(q.wholeText, rec.wholeText),
		}
	}
	return topCandidates(scored, n)
}
