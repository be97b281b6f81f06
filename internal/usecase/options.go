package usecase

import (
	"fmt"

	"github.com/scanify/backend/config"
	"github.com/scanify/backend/internal/matching"
)

// MatcherConfigs builds stockist and product matcher configurations from application
// config. Both matchers share one vocabulary, similarity function and sink.
func MatcherConfigs(cfg config.MatchingConfig, sink matching.DiagnosticSink) (matching.StockistConfig, matching.ProductConfig, error) {
	sim, err := matching.SimilarityByName(cfg.Similarity)
	if err != nil {
		return matching.StockistConfig{}, matching.ProductConfig{}, fmt.Errorf("matching similarity: %w", err)
	}
	vocab := matching.NewVocabulary(cfg.StopWords, cfg.Synonyms)

	stockist := matching.DefaultStockistConfig()
	stockist.Similarity = sim
	stockist.Vocabulary = vocab
	stockist.Sink = sink
	if cfg.Stockist.Threshold > 0 {
		stockist.Threshold = cfg.Stockist.Threshold
	}
	if cfg.Stockist.TopN > 0 {
		stockist.TopN = cfg.Stockist.TopN
	}
	if cfg.Stockist.CityScore > 0 {
		stockist.CityScore = cfg.Stockist.CityScore
	}
	if cfg.Stockist.Suggestions > 0 {
		stockist.SuggestionCount = cfg.Stockist.Suggestions
	}

	product := matching.DefaultProductConfig()
	product.Similarity = sim
	product.Vocabulary = vocab
	product.Sink = sink
	if cfg.Product.Threshold > 0 {
		product.Threshold = cfg.Product.Threshold
	}
	if cfg.Product.TopN > 0 {
		product.TopN = cfg.Product.TopN
	}
	if cfg.Product.Concurrency > 0 {
		product.Concurrency = cfg.Product.Concurrency
	}

	return stockist, product, nil
}
