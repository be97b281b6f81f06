package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scanify/backend/internal/domain"
	"github.com/scanify/backend/internal/infrastructure/metrics"
	"github.com/scanify/backend/internal/matching"
)

// MatchingService resolves statement filenames and extracted product rows against the
// active master data. Reference lists are fetched and prepared once per call, so a
// batch of queries always sees one consistent snapshot.
type MatchingService struct {
	master    domain.MasterRepository
	stockists *matching.StockistMatcher
	products  *matching.ProductMatcher
	logger    *zap.Logger
}

// NewMatchingService creates a new matching service with dependencies
func NewMatchingService(
	master domain.MasterRepository,
	stockistCfg matching.StockistConfig,
	productCfg matching.ProductConfig,
	logger *zap.Logger,
) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{
		master:    master,
		stockists: matching.NewStockistMatcher(stockistCfg),
		products:  matching.NewProductMatcher(productCfg),
		logger:    logger,
	}
}

// LoadStockists fetches the active stockists and prepares them for matching
func (s *MatchingService) LoadStockists(ctx context.Context) (*matching.StockistSet, error) {
	stockists, err := s.master.ActiveStockists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stockists: %w", err)
	}
	set, err := s.stockists.Prepare(stockists)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("stockist set prepared", zap.Int("loaded", len(stockists)), zap.Int("usable", set.Len()))
	return set, nil
}

// LoadCatalog fetches the active products and prepares them for matching
func (s *MatchingService) LoadCatalog(ctx context.Context) (*matching.ProductCatalog, error) {
	products, err := s.master.ActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	catalog, err := s.products.Prepare(products)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("product catalog prepared", zap.Int("loaded", len(products)), zap.Int("usable", catalog.Len()))
	return catalog, nil
}

// IdentifyStockist resolves one statement filename to a stockist
func (s *MatchingService) IdentifyStockist(ctx context.Context, filename string) (domain.MatchResult, error) {
	results, err := s.IdentifyStockists(ctx, []string{filename})
	if err != nil {
		return domain.MatchResult{Query: filename}, err
	}
	return results[0], nil
}

// IdentifyStockists resolves filenames against one stockist snapshot, in input order
func (s *MatchingService) IdentifyStockists(ctx context.Context, filenames []string) ([]domain.MatchResult, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("%w: no filenames given", domain.ErrInvalidRequest)
	}
	set, err := s.LoadStockists(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.MatchResult, 0, len(filenames))
	for _, name := range filenames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.identify(name, set)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// SuggestStockists lists the n stockists whose names read most like the filename
func (s *MatchingService) SuggestStockists(ctx context.Context, filename string, n int) ([]domain.Candidate, error) {
	set, err := s.LoadStockists(ctx)
	if err != nil {
		return nil, err
	}
	return s.stockists.Suggest(filename, set, n)
}

// MatchProducts resolves extracted rows to catalog products, in input order
func (s *MatchingService) MatchProducts(ctx context.Context, queries []domain.ProductQuery) ([]domain.MatchResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no items given", domain.ErrInvalidRequest)
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.matchAll(ctx, queries, catalog)
}

func (s *MatchingService) identify(filename string, set *matching.StockistSet) (domain.MatchResult, error) {
	res, err := s.stockists.Match(filename, set)
	if err != nil {
		return res, err
	}
	metrics.ObserveMatch(matching.MatcherStockist, res)
	return res, nil
}

func (s *MatchingService) suggest(filename string, set *matching.StockistSet) ([]domain.Candidate, error) {
	return s.stockists.Suggest(filename, set, 0)
}

func (s *MatchingService) matchAll(ctx context.Context, queries []domain.ProductQuery, catalog *matching.ProductCatalog) ([]domain.MatchResult, error) {
	results, err := s.products.MatchAll(ctx, queries, catalog)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		metrics.ObserveMatch(matching.MatcherProduct, res)
	}
	return results, nil
}
