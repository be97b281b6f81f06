package statements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/scanify/backend/internal/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint failure
const uniqueViolation = "23505"

// PostgresRepository stores statements in the stockist_statement tables
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a repository on an open database
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Find returns the id of the statement for the stockist and month
func (r *PostgresRepository) Find(ctx context.Context, stockistCode, month string) (string, bool, error) {
	query, args := findQuery(stockistCode, month)

	var id string
	err := r.db.GetContext(ctx, &id, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find statement: %w", err)
	}
	return id, true, nil
}

// Save inserts the statement and its items in one transaction
func (r *PostgresRepository) Save(ctx context.Context, s *domain.Statement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := insertStatementQuery(s)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s for %s", domain.ErrStatementExists, s.StockistCode, s.Month)
		}
		return fmt.Errorf("insert statement: %w", err)
	}

	if len(s.Items) > 0 {
		query, args = insertItemsQuery(s)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert statement items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func findQuery(stockistCode, month string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id")
	sb.From("stockist_statement")
	sb.Where(
		sb.Equal("stockist_code", stockistCode),
		sb.Equal("statement_month", month),
	)
	sb.Limit(1)
	return sb.Build()
}

func insertStatementQuery(s *domain.Statement) (string, []interface{}) {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("stockist_statement")
	ib.Cols(
		"id", "stockist_code", "statement_month", "source_file",
		"extraction_status", "extraction_notes",
		"total_opening_value", "total_purchase_value", "total_sales_value",
		"total_free_value", "total_closing_value", "created_at",
	)
	ib.Values(
		s.ID, s.StockistCode, s.Month, s.SourceFile,
		s.ExtractionStatus, s.ExtractionNotes,
		s.TotalOpeningValue, s.TotalPurchaseValue, s.TotalSalesValue,
		s.TotalFreeValue, s.TotalClosingValue, s.CreatedAt,
	)
	return ib.Build()
}

func insertItemsQuery(s *domain.Statement) (string, []interface{}) {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("stockist_statement_item")
	ib.Cols(
		"statement_id", "line_no", "product_code", "product_name", "pack",
		"opening_qty", "purchase_qty", "sales_qty", "free_qty", "return_qty", "misc_out_qty",
		"closing_qty", "pts", "closing_value", "match_score",
	)
	for i, item := range s.Items {
		ib.Values(
			s.ID, i+1, item.ProductCode, item.ProductName, item.Pack,
			item.OpeningQty, item.PurchaseQty, item.SalesQty, item.FreeQty, item.ReturnQty, item.MiscOutQty,
			item.ClosingQty, item.PTS, item.ClosingValue, item.MatchScore,
		)
	}
	return ib.Build()
}
