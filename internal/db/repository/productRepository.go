package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"dokan-backend/internal/models"
)

const productColumns = "id, title, slug, description, category, images, price, stock, sales_count, rating, review_count, is_active, created_at, updated_at"

// ProductFilter narrows and orders a catalog listing. Zero values mean
// "no constraint"; Sort falls back to newest-first for unknown keys.
type ProductFilter struct {
	Category   string
	Sort       string
	ActiveOnly bool
	Page       int
	Limit      int
}

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product models.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, title, slug, description, category, images, price, stock, sales_count, rating, review_count, is_active, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		product.ID, product.Title, product.Slug, product.Description, product.Category,
		product.Images, product.Price, product.Stock, product.SalesCount,
		product.Rating, product.ReviewCount, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if uniqueViolation(err, "products_slug_key") {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (models.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE slug = $1", slug))
}

// List returns one page of the catalog plus the total row count for the
// same filter, so handlers can build pagination metadata.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int, error) {
	where := "WHERE 1=1"
	var args []any
	if filter.ActiveOnly {
		where += " AND is_active = TRUE"
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, sortOrder(filter.Sort), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("closing product rows: %v", err)
		}
	}()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	return products, total, nil
}

// UpdateRating overwrites the denormalized rating pair maintained from
// approved reviews.
func (r *ProductRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET rating = $2, review_count = $3, updated_at = now() WHERE id = $1",
		id, rating, reviewCount)
	if err != nil {
		return fmt.Errorf("updating product rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating product rating: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// sortOrder maps a public sort key to an ORDER BY clause. Only values
// from this table ever reach the query text.
func sortOrder(key string) string {
	switch key {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "bestselling":
		return "sales_count DESC"
	case "rating":
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var product models.Product
	err := row.Scan(&product.ID, &product.Title, &product.Slug, &product.Description,
		&product.Category, &product.Images, &product.Price, &product.Stock,
		&product.SalesCount, &product.Rating, &product.ReviewCount, &product.IsActive,
		&product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("scanning product: %w", err)
	}
	return product, nil
}
