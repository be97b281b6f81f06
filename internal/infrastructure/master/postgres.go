package master

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/scanify/backend/internal/domain"
)

// PostgresRepository serves master data from the stockist_master and product_master tables
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a repository on an open database
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ActiveStockists returns active stockists ordered by code
func (r *PostgresRepository) ActiveStockists(ctx context.Context) ([]domain.Stockist, error) {
	query, args := activeStockistsQuery()

	var stockists []domain.Stockist
	if err := r.db.SelectContext(ctx, &stockists, query, args...); err != nil {
		return nil, fmt.Errorf("select stockists: %w", err)
	}
	return stockists, nil
}

// ActiveProducts returns active products ordered by code
func (r *PostgresRepository) ActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query, args := activeProductsQuery()

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return products, nil
}

func activeStockistsQuery() (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"stockist_code",
		"stockist_name",
		"COALESCE(city, '') AS city",
		"COALESCE(hq, '') AS hq",
		"status",
	)
	sb.From("stockist_master")
	sb.Where(sb.Equal("status", domain.StatusActive))
	sb.OrderBy("stockist_code")
	return sb.Build()
}

func activeProductsQuery() (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"product_code",
		"product_name",
		"COALESCE(pack, '') AS pack",
		"COALESCE(pack_conversion, '') AS pack_conversion",
		"COALESCE(division, '') AS division",
		"COALESCE(product_group, '') AS product_group",
		"COALESCE(pts, 0) AS pts",
		"COALESCE(ptr, 0) AS ptr",
		"COALESCE(mrp, 0) AS mrp",
		"status",
	)
	sb.From("product_master")
	sb.Where(sb.Equal("status", domain.StatusActive))
	sb.OrderBy("product_code")
	return sb.Build()
}
