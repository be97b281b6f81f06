package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scanify/backend/internal/domain"
	"github.com/scanify/backend/internal/infrastructure/cache"
	"github.com/scanify/backend/internal/infrastructure/metrics"
	"github.com/scanify/backend/internal/matching"
)

// StatementServiceConfig holds configuration for the statement service
type StatementServiceConfig struct {
	CacheTTL time.Duration
}

// StatementService imports stockist statements from uploaded archives
type StatementService struct {
	matcher    *MatchingService
	extractor  domain.Extractor
	statements domain.StatementRepository
	cache      domain.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewStatementService creates a new statement service with dependencies.
// extractor and cache may be nil: imports then fail with domain.ErrExtractorUnavailable,
// and extraction results are not cached.
func NewStatementService(
	matcher *MatchingService,
	extractor domain.Extractor,
	statements domain.StatementRepository,
	cacheRepo domain.CacheRepository,
	config StatementServiceConfig,
	logger *zap.Logger,
) *StatementService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StatementService{
		matcher:    matcher,
		extractor:  extractor,
		statements: statements,
		cache:      cacheRepo,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// BulkImport imports every statement file of a ZIP archive for the given month (YYYY-MM).
// Flow per file: identify stockist -> skip if already stored -> extract rows -> match
// products -> compute closing balances -> save.
//
// A file-level problem is recorded in the report and the batch carries on. Master data
// problems abort the batch with an error; cancellation stops it between files and
// returns the partial report together with the context error.
func (s *StatementService) BulkImport(ctx context.Context, month string, archive []byte) (*domain.BatchReport, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("%w: month must be YYYY-MM, got %q", domain.ErrInvalidRequest, month)
	}
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}

	entries, err := readArchive(archive)
	if err != nil {
		return nil, err
	}

	var files []archiveEntry
	for _, e := range entries {
		if e.statement() {
			files = append(files, e)
		}
	}

	report := &domain.BatchReport{
		ID:         uuid.NewString(),
		Month:      month,
		TotalFiles: len(files),
		Files:      make([]domain.FileOutcome, 0, len(files)),
		StartedAt:  s.now(),
	}
	logger := s.logger.With(zap.String("batch", report.ID), zap.String("month", month))
	logger.Info("bulk import started", zap.Int("files", len(files)))

	stockists, err := s.matcher.LoadStockists(ctx)
	if err != nil {
		return s.abort(report, logger, err)
	}
	catalog, err := s.matcher.LoadCatalog(ctx)
	if err != nil {
		return s.abort(report, logger, err)
	}
	products := catalog.Products()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			s.finish(report)
			logger.Warn("bulk import cancelled", zap.Int("processed", len(report.Files)))
			return report, err
		}

		outcome, unmatched, err := s.importFile(ctx, month, f, stockists, catalog, products)
		if err != nil {
			return s.abort(report, logger, err)
		}

		switch outcome.Status {
		case domain.FileSuccess:
			report.SuccessCount++
		case domain.FileSkipped:
			report.SkippedCount++
		default:
			report.FailedCount++
			logger.Warn("statement file failed", zap.String("file", f.name), zap.String("reason", outcome.Message))
		}
		metrics.ImportFilesTotal.WithLabelValues(outcome.Status).Inc()

		report.Files = append(report.Files, outcome)
		report.Unmatched = append(report.Unmatched, unmatched...)
	}

	s.finish(report)
	logger.Info("bulk import finished",
		zap.String("status", report.Status),
		zap.Int("success", report.SuccessCount),
		zap.Int("failed", report.FailedCount),
		zap.Int("skipped", report.SkippedCount),
		zap.Int("unmatched_rows", len(report.Unmatched)),
	)
	return report, nil
}

func (s *StatementService) finish(report *domain.BatchReport) {
	report.Status = domain.BatchCompleted
	if report.FailedCount > 0 {
		report.Status = domain.BatchPartiallyCompleted
	}
	report.FinishedAt = s.now()
}

func (s *StatementService) abort(report *domain.BatchReport, logger *zap.Logger, err error) (*domain.BatchReport, error) {
	report.Status = domain.BatchFailed
	report.FinishedAt = s.now()
	logger.Error("bulk import aborted", zap.Error(err))
	return report, err
}

// importFile processes one archive entry. Only errors that must stop the whole batch
// are returned; everything else is folded into the outcome.
func (s *StatementService) importFile(
	ctx context.Context,
	month string,
	f archiveEntry,
	stockists *matching.StockistSet,
	catalog *matching.ProductCatalog,
	products []domain.Product,
) (domain.FileOutcome, []domain.UnmatchedItem, error) {
	outcome := domain.FileOutcome{File: f.name, Status: domain.FileFailed}

	match, err := s.matcher.identify(f.name, stockists)
	if err != nil {
		return outcome, nil, err
	}
	if !match.Accepted {
		outcome.Message = "could not identify stockist from filename"
		return outcome, nil, nil
	}
	outcome.Stockist = match.Code
	outcome.StockistScore = match.Score

	existing, found, err := s.statements.Find(ctx, match.Code, month)
	if err != nil {
		outcome.Message = err.Error()
		return outcome, nil, nil
	}
	if found {
		outcome.Status = domain.FileSkipped
		outcome.Message = "statement already exists: " + existing
		return outcome, nil, nil
	}

	doc, err := f.document()
	if err != nil {
		outcome.Message = err.Error()
		return outcome, nil, nil
	}
	extracted, err := s.extract(ctx, doc, products)
	if err != nil {
		outcome.Message = err.Error()
		return outcome, nil, nil
	}

	items, unmatched, err := s.resolveItems(ctx, f.name, extracted, catalog)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyReferenceSet) {
			return outcome, nil, err
		}
		outcome.Message = err.Error()
		return outcome, nil, nil
	}

	statement := &domain.Statement{
		ID:           uuid.NewString(),
		StockistCode: match.Code,
		Month:        month,
		SourceFile:   f.name,
		Items:        items,
		CreatedAt:    s.now(),
	}
	if len(extracted) == 0 {
		statement.ExtractionStatus = domain.ExtractionFailed
		statement.ExtractionNotes = "no data extracted from file"
	} else {
		statement.ExtractionStatus = domain.ExtractionCompleted
		statement.ExtractionNotes = fmt.Sprintf("extracted %d products, %d unmatched", len(extracted), len(unmatched))
	}
	statement.CalculateTotals()

	if err := s.statements.Save(ctx, statement); err != nil {
		if errors.Is(err, domain.ErrStatementExists) {
			outcome.Status = domain.FileSkipped
		}
		outcome.Message = err.Error()
		return outcome, nil, nil
	}

	outcome.Status = domain.FileSuccess
	outcome.Statement = statement.ID
	outcome.ItemsExtracted = len(extracted)
	outcome.ItemsUnmatched = len(unmatched)
	return outcome, unmatched, nil
}

// resolveItems turns extracted rows into statement lines. A product code proposed by
// the extractor is trusted when it exists in the catalog; all other rows go through
// the product matcher. Rows that stay unmatched are returned separately.
func (s *StatementService) resolveItems(
	ctx context.Context,
	file string,
	extracted []domain.ExtractedItem,
	catalog *matching.ProductCatalog,
) ([]domain.StatementItem, []domain.UnmatchedItem, error) {
	lines := make([]*domain.StatementItem, len(extracted))
	var queries []domain.ProductQuery
	var pending []int

	for i, row := range extracted {
		if row.ProductCode != "" {
			if p, ok := catalog.Lookup(row.ProductCode); ok {
				lines[i] = statementLine(row, p, 1)
				continue
			}
		}
		queries = append(queries, domain.ProductQuery{Name: row.Name, Pack: row.Pack})
		pending = append(pending, i)
	}

	var unmatched []domain.UnmatchedItem
	if len(queries) > 0 {
		results, err := s.matcher.matchAll(ctx, queries, catalog)
		if err != nil {
			return nil, nil, err
		}
		for j, res := range results {
			row := extracted[pending[j]]
			if res.Accepted {
				if p, ok := catalog.Lookup(res.Code); ok {
					lines[pending[j]] = statementLine(row, p, res.Score)
					continue
				}
			}
			if res.Skipped {
				continue
			}
			item := domain.UnmatchedItem{File: file, Name: row.Name, Pack: row.Pack, BestScore: res.Score}
			if len(res.TopCandidates) > 0 {
				item.BestName = res.TopCandidates[0].Name
			}
			unmatched = append(unmatched, item)
		}
	}

	items := make([]domain.StatementItem, 0, len(extracted))
	for _, line := range lines {
		if line != nil {
			items = append(items, *line)
		}
	}
	return items, unmatched, nil
}

func statementLine(row domain.ExtractedItem, p domain.Product, score float64) *domain.StatementItem {
	return &domain.StatementItem{
		ProductCode: p.Code,
		ProductName: p.Name,
		Pack:        p.Pack,
		OpeningQty:  row.OpeningQty,
		PurchaseQty: row.PurchaseQty,
		SalesQty:    row.SalesQty,
		FreeQty:     row.FreeQty,
		ReturnQty:   row.ReturnQty,
		MiscOutQty:  row.MiscOutQty,
		PTS:         p.PTS,
		MatchScore:  score,
	}
}

// extract runs the extractor, reusing an earlier result for identical file content
func (s *StatementService) extract(ctx context.Context, doc domain.Document, products []domain.Product) ([]domain.ExtractedItem, error) {
	key := extractionCacheKey(doc.Data)

	if s.cache != nil {
		var cached []domain.ExtractedItem
		err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err == nil {
			metrics.ExtractionCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("extraction cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.ExtractionCacheTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	items, err := s.extractor.Extract(ctx, doc, products)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	// Empty results are not cached so a retry can call the extractor again
	if s.cache != nil && len(items) > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, items, s.cacheTTL); err != nil {
			s.logger.Warn("extraction cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

// extractionCacheKey keys extraction results by file content.
// Format: "extract:{xxhash64 hex}"
func extractionCacheKey(data []byte) string {
	return fmt.Sprintf("extract:%016x", xxhash.Sum64(data))
}

// SuggestArchive lists, for every file in a ZIP archive, the stockist it resolves to
// (if any) and the closest stockist names with scores as percentages.
func (s *StatementService) SuggestArchive(ctx context.Context, archive []byte) ([]domain.Suggestion, error) {
	entries, err := readArchive(archive)
	if err != nil {
		return nil, err
	}
	set, err := s.matcher.LoadStockists(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.Suggestion, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match, err := s.matcher.identify(e.name, set)
		if err != nil {
			return nil, err
		}
		candidates, err := s.matcher.suggest(e.name, set)
		if err != nil {
			return nil, err
		}

		suggestion := domain.Suggestion{Filename: e.name, TopCandidates: make([]domain.Candidate, len(candidates))}
		if match.Accepted {
			suggestion.MatchedStockist = match.Code
		}
		for i, c := range candidates {
			c.Score = asPercent(c.Score)
			suggestion.TopCandidates[i] = c
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// asPercent converts a [0,1] score to a percentage rounded to one decimal
func asPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}
