package statements

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/scanify/backend/internal/domain"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	s := &domain.Statement{
		ID:           "stmt-1",
		StockistCode: "ST045",
		Month:        "2024-01",
		Items:        []domain.StatementItem{{ProductCode: "P001"}},
	}

	t.Run("find before save", func(t *testing.T) {
		_, ok, err := repo.Find(ctx, "ST045", "2024-01")
		if err != nil || ok {
			t.Errorf("Find() = %v, %v, want not found", ok, err)
		}
	})

	t.Run("save and find", func(t *testing.T) {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		id, ok, err := repo.Find(ctx, "ST045", "2024-01")
		if err != nil || !ok || id != "stmt-1" {
			t.Errorf("Find() = %q, %v, %v", id, ok, err)
		}
	})

	t.Run("stored copy is isolated", func(t *testing.T) {
		s.Items[0].ProductCode = "CHANGED"
		got, ok := repo.Get(ctx, "stmt-1")
		if !ok || got.Items[0].ProductCode != "P001" {
			t.Errorf("Get() = %+v", got)
		}
	})

	t.Run("second statement for the period is rejected", func(t *testing.T) {
		err := repo.Save(ctx, &domain.Statement{ID: "stmt-2", StockistCode: "ST045", Month: "2024-01"})
		if !errors.Is(err, domain.ErrStatementExists) {
			t.Errorf("Save() error = %v, want ErrStatementExists", err)
		}
	})

	t.Run("other month is independent", func(t *testing.T) {
		_, ok, _ := repo.Find(ctx, "ST045", "2024-02")
		if ok {
			t.Error("Find() found statement for another month")
		}
	})
}

func TestQueries(t *testing.T) {
	t.Run("find", func(t *testing.T) {
		query, args := findQuery("ST045", "2024-01")
		if !strings.Contains(query, "FROM stockist_statement WHERE stockist_code = $1 AND statement_month = $2") {
			t.Errorf("unexpected query: %s", query)
		}
		if len(args) < 2 || args[0] != "ST045" || args[1] != "2024-01" {
			t.Errorf("unexpected args: %v", args)
		}
	})

	t.Run("insert items numbers lines from one", func(t *testing.T) {
		s := &domain.Statement{ID: "x", Items: []domain.StatementItem{{ProductCode: "A"}, {ProductCode: "B"}}}
		query, args := insertItemsQuery(s)
		if !strings.HasPrefix(query, "INSERT INTO stockist_statement_item") {
			t.Errorf("unexpected query: %s", query)
		}
		if len(args) != 30 {
			t.Fatalf("len(args) = %d, want 30", len(args))
		}
		if args[1] != 1 || args[16] != 2 {
			t.Errorf("line numbers = %v, %v", args[1], args[16])
		}
	})

	t.Run("insert statement", func(t *testing.T) {
		query, args := insertStatementQuery(&domain.Statement{ID: "x", StockistCode: "ST045"})
		if !strings.Contains(query, "$12") || len(args) != 12 {
			t.Errorf("query %s with %d args", query, len(args))
		}
	})
}
