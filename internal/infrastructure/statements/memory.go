package statements

import (
	"context"
	"fmt"
	"sync"

	"github.com/scanify/backend/internal/domain"
)

// MemoryRepository keeps statements in process memory
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]domain.Statement
	byStockist map[string]string
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]domain.Statement),
		byStockist: make(map[string]string),
	}
}

func periodKey(stockistCode, month string) string {
	return stockistCode + "|" + month
}

// Find returns the id of the statement for the stockist and month
func (r *MemoryRepository) Find(_ context.Context, stockistCode, month string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byStockist[periodKey(stockistCode, month)]
	return id, ok, nil
}

// Save stores a statement; a second statement for the same stockist and month is rejected
func (r *MemoryRepository) Save(_ context.Context, s *domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := periodKey(s.StockistCode, s.Month)
	if existing, ok := r.byStockist[key]; ok && existing != s.ID {
		return fmt.Errorf("%w: %s for %s", domain.ErrStatementExists, s.StockistCode, s.Month)
	}

	stored := *s
	stored.Items = append([]domain.StatementItem(nil), s.Items...)
	r.byID[s.ID] = stored
	r.byStockist[key] = s.ID
	return nil
}

// Get returns a copy of the stored statement
func (r *MemoryRepository) Get(_ context.Context, id string) (domain.Statement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return domain.Statement{}, false
	}
	s.Items = append([]domain.StatementItem(nil), s.Items...)
	return s, true
}
