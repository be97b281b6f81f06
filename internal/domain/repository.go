package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MasterRepository provides the active reference lists used for matching.
// Callers fetch each list once per batch and reuse it for every query in that batch.
type MasterRepository interface {
	ActiveStockists(ctx context.Context) ([]Stockist, error)
	ActiveProducts(ctx context.Context) ([]Product, error)
}

// StatementRepository persists imported stockist statements
type StatementRepository interface {
	// Find returns the id of the statement stored for the stockist and month, if any
	Find(ctx context.Context, stockistCode, month string) (string, bool, error)
	Save(ctx context.Context, statement *Statement) error
}

// Extractor reads product rows out of a stockist statement document
type Extractor interface {
	Extract(ctx context.Context, doc Document, catalog []Product) ([]ExtractedItem, error)
}
