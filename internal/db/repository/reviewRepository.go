package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"dokan-backend/internal/models"
)

const reviewColumns = `id, product_id, user_id, order_id, rating, title, comment, images,
    status, is_verified_purchase, admin_response, responded_at, helpful, not_helpful, created_at, updated_at`

// ReviewFilter narrows a review listing. Empty fields mean "no
// constraint".
type ReviewFilter struct {
	ProductID string
	Status    models.ReviewStatus
	Page      int
	Limit     int
}

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review models.Review) error {
	var orderID sql.NullString
	if review.OrderID != nil {
		orderID = sql.NullString{String: *review.OrderID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (id, product_id, user_id, order_id, rating, title, comment, images,
             status, is_verified_purchase, helpful, not_helpful, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		review.ID, review.ProductID, review.UserID, orderID,
		review.Rating, review.Title, review.Comment, review.Images,
		review.Status, review.IsVerifiedPurchase, review.Helpful, review.NotHelpful,
		review.CreatedAt, review.UpdatedAt,
	)
	if uniqueViolation(err, "reviews_user_product_key") {
		return ErrDuplicateReview
	}
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (models.Review, error) {
	return scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id))
}

// UpdateModeration persists the moderation outcome: status, optional
// admin response and its timestamp.
func (r *ReviewRepository) UpdateModeration(ctx context.Context, review models.Review) error {
	var (
		response    sql.NullString
		respondedAt sql.NullTime
	)
	if review.AdminResponse != nil {
		response = sql.NullString{String: *review.AdminResponse, Valid: true}
	}
	if review.RespondedAt != nil {
		respondedAt = sql.NullTime{Time: *review.RespondedAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET status = $2, admin_response = $3, responded_at = $4, updated_at = now() WHERE id = $1",
		review.ID, review.Status, response, respondedAt)
	if err != nil {
		return fmt.Errorf("updating review moderation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating review moderation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApprovedStats returns the average rating and count over the product's
// approved reviews. Both are zero when none exist.
func (r *ReviewRepository) ApprovedStats(ctx context.Context, productID string) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE product_id = $1 AND status = $2",
		productID, models.ReviewStatusApproved).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("computing review stats: %w", err)
	}
	return avg, count, nil
}

// List returns one page of reviews matching the filter, newest first,
// plus the total count.
func (r *ReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]models.Review, int, error) {
	where := "WHERE 1=1"
	var args []any
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting reviews: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM reviews %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		reviewColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing reviews: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("closing review rows: %v", err)
		}
	}()

	var reviews []models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing reviews: %w", err)
	}
	return reviews, total, nil
}

func scanReview(row rowScanner) (models.Review, error) {
	var (
		review      models.Review
		orderID     sql.NullString
		response    sql.NullString
		respondedAt sql.NullTime
	)
	err := row.Scan(&review.ID, &review.ProductID, &review.UserID, &orderID,
		&review.Rating, &review.Title, &review.Comment, &review.Images,
		&review.Status, &review.IsVerifiedPurchase, &response, &respondedAt,
		&review.Helpful, &review.NotHelpful, &review.CreatedAt, &review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("scanning review: %w", err)
	}

	if orderID.Valid {
		review.OrderID = &orderID.String
	}
	if response.Valid {
		review.AdminResponse = &response.String
	}
	if respondedAt.Valid {
		review.RespondedAt = &respondedAt.Time
	}
	return review, nil
}
