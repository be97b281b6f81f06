package matching

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/scanify/backend/internal/domain"
)

// ProductConfig holds configuration for the product matcher.
// Zero values fall back to the defaults.
type ProductConfig struct {
	Threshold   float64
	TopN        int
	Concurrency int
	Weights     ProductWeights
	Similarity  Similarity
	Vocabulary  Vocabulary
	Sink        DiagnosticSink
}

// DefaultProductConfig returns the stock thresholds, weights and vocabulary
func DefaultProductConfig() ProductConfig {
	return ProductConfig{
		Threshold:   DefaultProductThreshold,
		TopN:        DefaultProductTopN,
		Concurrency: DefaultConcurrency,
		Weights:     DefaultProductWeights(),
		Similarity:  RatcliffObershelp,
		Vocabulary:  DefaultVocabulary(),
		Sink:        NopSink{},
	}
}

// ProductMatcher resolves extracted product rows to catalog products
type ProductMatcher struct {
	cfg ProductConfig
}

// NewProductMatcher creates a product matcher with the given configuration
func NewProductMatcher(cfg ProductConfig) *ProductMatcher {
	def := DefaultProductConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Weights == (ProductWeights{}) {
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
	return &ProductMatcher{cfg: cfg}
}

// Threshold returns the acceptance threshold in use
func (m *ProductMatcher) Threshold() float64 {
	return m.cfg.Threshold
}

// Prepare validates products and builds the catalog snapshot used by Match.
// Catalog order is kept; it decides ties.
func (m *ProductMatcher) Prepare(products []domain.Product) (*ProductCatalog, error) {
	return prepareCatalog(products, m.cfg.Vocabulary, m.cfg.Sink)
}

// Match scores the query against every catalog product:
//
//	name  = 0.6*jaccard(tokens) + 0.4*similarity(names)
//	total = 0.8*name + 0.2*pack
//
// The first product with the highest total wins and is accepted at or above the
// threshold. A query without a usable name is skipped without scoring.
func (m *ProductMatcher) Match(query domain.ProductQuery, catalog *ProductCatalog) (domain.MatchResult, error) {
	if catalog.Len() == 0 {
		return domain.MatchResult{Query: query.Name}, fmt.Errorf("%w: products", domain.ErrEmptyReferenceSet)
	}

	name := Normalize(query.Name)
	if name == "" {
		return domain.MatchResult{Query: query.Name, Skipped: true, Reason: domain.ReasonNoName}, nil
	}
	tokens := m.cfg.Vocabulary.NameTokens(query.Name)
	pack := NormalizePack(query.Pack)
	w := m.cfg.Weights

	var best bestOf
	scored := make([]scoredCandidate, len(catalog.records))
	for i, p := range catalog.records {
		nameScore := w.Jaccard*tokens.Jaccard(p.tokens) + w.Whole*m.cfg.Similarity(name, p.normalized)
		total := w.Name*nameScore + w.Pack*PackSimilarity(pack, p.pack)

		scored[i] = scoredCandidate{index: i, code: p.record.Code, name: p.record.Name, score: total}
		best.offer(scored[i])
	}

	result := decide(query.Name, best, m.cfg.Threshold, domain.StrategyFuzzy)
	if !result.Accepted {
		result.TopCandidates = topCandidates(scored, m.cfg.TopN)
		m.cfg.Sink.Rejected(Rejection{
			Matcher:    MatcherProduct,
			Query:      query.Name,
			Pack:       query.Pack,
			Reason:     result.Reason,
			BestCode:   best.best.code,
			BestName:   best.best.name,
			BestScore:  result.Score,
			Candidates: result.TopCandidates,
		})
	}
	return result, nil
}

// MatchAll matches queries concurrently and returns results in query order.
// Results are identical to calling Match for each query in turn.
func (m *ProductMatcher) MatchAll(ctx context.Context, queries []domain.ProductQuery, catalog *ProductCatalog) ([]domain.MatchResult, error) {
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: products", domain.ErrEmptyReferenceSet)
	}

	results := make([]domain.MatchResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Concurrency)

	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := m.Match(q, catalog)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
