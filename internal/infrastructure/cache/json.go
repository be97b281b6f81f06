package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scanify/backend/internal/domain"
)

// GetJSON reads key and decodes it into v. Returns domain.ErrCacheMiss when absent.
func GetJSON(ctx context.Context, c domain.CacheRepository, key string, v any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, c domain.CacheRepository, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
