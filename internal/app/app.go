// Package app wires configuration into repositories, clients and services. The HTTP
// server and the command line tool share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scanify/backend/config"
	"github.com/scanify/backend/internal/domain"
	"github.com/scanify/backend/internal/infrastructure/cache"
	"github.com/scanify/backend/internal/infrastructure/database"
	"github.com/scanify/backend/internal/infrastructure/gemini"
	"github.com/scanify/backend/internal/infrastructure/master"
	"github.com/scanify/backend/internal/infrastructure/statements"
	"github.com/scanify/backend/internal/matching"
	"github.com/scanify/backend/internal/usecase"
)

const (
	cacheKeyPrefix       = "scanify:"
	cacheCleanupInterval = 10 * time.Minute
)

// App holds the wired services
type App struct {
	Matching   *usecase.MatchingService
	Statements *usecase.StatementService

	closers []func() error
}

// New builds the application from configuration. Extraction stays disabled when no
// Gemini API key is configured; matching works without it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{}

	masterRepo, statementRepo, err := a.repositories(ctx, cfg.Master, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	cacheRepo, err := a.cache(ctx, cfg.Cache)
	if err != nil {
		a.Close()
		return nil, err
	}

	var extractor domain.Extractor
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:            cfg.Gemini.APIKey,
			Model:             cfg.Gemini.Model,
			Temperature:       cfg.Gemini.Temperature,
			RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
			MaxRetries:        cfg.Gemini.MaxRetries,
			BaseDelay:         cfg.Gemini.RetryDelay,
		}, logger.Named("gemini"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		extractor = client
		logger.Info("statement extraction enabled", zap.String("model", cfg.Gemini.Model))
	} else {
		logger.Warn("gemini api key not configured, statement import is disabled")
	}

	stockistCfg, productCfg, err := usecase.MatcherConfigs(cfg.Matching, matching.NewZapSink(logger.Named("matching")))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Matching = usecase.NewMatchingService(masterRepo, stockistCfg, productCfg, logger.Named("matching"))
	a.Statements = usecase.NewStatementService(
		a.Matching,
		extractor,
		statementRepo,
		cacheRepo,
		usecase.StatementServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger.Named("statements"),
	)

	logger.Info("matching configured",
		zap.String("master", cfg.Master.Source),
		zap.String("cache", cfg.Cache.Type),
		zap.String("similarity", cfg.Matching.Similarity),
		zap.Float64("stockist_threshold", stockistCfg.Threshold),
		zap.Float64("product_threshold", productCfg.Threshold),
	)
	return a, nil
}

func (a *App) repositories(ctx context.Context, cfg config.MasterConfig, logger *zap.Logger) (domain.MasterRepository, domain.StatementRepository, error) {
	if cfg.Source != "postgres" {
		logger.Info("master data from files",
			zap.String("stockists", cfg.StockistsFile),
			zap.String("products", cfg.ProductsFile),
		)
		return master.NewFileRepository(cfg.StockistsFile, cfg.ProductsFile), statements.NewMemoryRepository(), nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, db.Close)

	if cfg.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return nil, nil, err
		}
		logger.Info("database schema applied")
	}
	return master.NewPostgresRepository(db), statements.NewPostgresRepository(db), nil
}

func (a *App) cache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, error) {
	if cfg.Type == "redis" {
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL, cacheKeyPrefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c.Close)
		return c, nil
	}
	c := cache.NewMemoryCache(cacheCleanupInterval)
	a.closers = append(a.closers, c.Close)
	return c, nil
}

// Close releases connections in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close app: %w", errors.Join(errs...))
	}
	return nil
}
