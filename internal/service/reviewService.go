package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/logger/sl"
	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ReviewRepository persists reviews and answers the aggregate query
// behind product ratings.
//
//go:generate mockery --name=ReviewRepository --output=./mocks --case=underscore
type ReviewRepository interface {
	Create(ctx context.Context, review models.Review) error
	GetByID(ctx context.Context, id string) (models.Review, error)
	UpdateModeration(ctx context.Context, review models.Review) error
	ApprovedStats(ctx context.Context, productID string) (float64, int, error)
	List(ctx context.Context, filter repository.ReviewFilter) ([]models.Review, int, error)
}

type CreateReviewInput struct {
	ProductID string   `json:"productId" validate:"required,uuid4"`
	OrderID   *string  `json:"orderId" validate:"omitempty,uuid4"`
	Rating    int      `json:"rating" validate:"required,min=1,max=5"`
	Title     string   `json:"title" validate:"omitempty,max=200"`
	Comment   string   `json:"comment" validate:"required,max=2000"`
	Images    []string `json:"images" validate:"omitempty,max=5,dive,max=500"`
}

type ModerateReviewInput struct {
	Status        string `json:"status" validate:"required,oneof=approved rejected"`
	AdminResponse string `json:"adminResponse" validate:"omitempty,max=1000"`
}

// ReviewService owns review submission, moderation and the derived
// product rating. Ratings are always recomputed from the full approved
// set rather than adjusted incrementally, so re-moderation can never
// drift the aggregate.
type ReviewService struct {
	reviews  ReviewRepository
	products ProductRepository
	orders   OrderRepository
	validate *validator.Validate
	log      *slog.Logger
}

func NewReviewService(reviews ReviewRepository, products ProductRepository, orders OrderRepository, log *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		orders:   orders,
		validate: newValidator(),
		log:      log,
	}
}

// Create submits a review in pending state. The verified-purchase badge
// is granted only when the caller names an order that is theirs, was
// delivered, and contains the product; in every other case the review
// is accepted without the badge.
func (s *ReviewService) Create(ctx context.Context, userID string, in CreateReviewInput) (models.Review, error) {
	tr := otel.Tracer("reviewService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return models.Review{}, invalidInput(err)
	}

	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Review{}, apperr.NotFound("product")
		}
		return models.Review{}, apperr.Internal(err)
	}

	verified := false
	if in.OrderID != nil {
		order, err := s.orders.GetByID(ctx, *in.OrderID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// Bad order reference never blocks the review.
		case err != nil:
			return models.Review{}, apperr.Internal(err)
		default:
			verified = order.UserID != nil && *order.UserID == userID &&
				order.Status == models.OrderStatusDelivered &&
				order.ContainsProduct(in.ProductID)
		}
	}

	now := time.Now()
	review := models.Review{
		ID:                 uuid.NewString(),
		ProductID:          in.ProductID,
		UserID:             userID,
		OrderID:            in.OrderID,
		Rating:             in.Rating,
		Title:              in.Title,
		Comment:            in.Comment,
		Images:             pq.StringArray(in.Images),
		Status:             models.ReviewStatusPending,
		IsVerifiedPurchase: verified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	span.SetAttributes(attribute.String("product_id", in.ProductID), attribute.Bool("verified", verified))

	start := time.Now()
	err := s.reviews.Create(ctx, review)
	metric.ObserveDb("review_create", start, err)
	if errors.Is(err, repository.ErrDuplicateReview) {
		return models.Review{}, apperr.Conflict("duplicate_review", "you already reviewed this product")
	}
	if err != nil {
		span.RecordError(err)
		return models.Review{}, apperr.Internal(err)
	}

	s.log.Info("review submitted",
		slog.String("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
		slog.Bool("verified_purchase", verified),
	)
	return review, nil
}

// Moderate sets the review's moderation outcome and refreshes the
// product's rating aggregate. Re-moderating an already moderated review
// overwrites the previous outcome.
func (s *ReviewService) Moderate(ctx context.Context, id string, in ModerateReviewInput) (models.Review, error) {
	tr := otel.Tracer("reviewService")
	ctx, span := tr.Start(ctx, "Moderate")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return models.Review{}, invalidInput(err)
	}

	review, err := s.reviews.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Review{}, apperr.NotFound("review")
	}
	if err != nil {
		return models.Review{}, apperr.Internal(err)
	}

	now := time.Now()
	review.Status = models.ReviewStatus(in.Status)
	review.UpdatedAt = now
	if in.AdminResponse != "" {
		review.AdminResponse = &in.AdminResponse
		review.RespondedAt = &now
	}
	span.SetAttributes(attribute.String("review_id", id), attribute.String("status", in.Status))

	start := time.Now()
	err = s.reviews.UpdateModeration(ctx, review)
	metric.ObserveDb("review_moderate", start, err)
	if err != nil {
		span.RecordError(err)
		return models.Review{}, apperr.Internal(err)
	}

	// Both outcomes can change the approved set: an approval adds to it
	// and a rejection may remove a formerly approved review from it.
	if err := s.refreshProductRating(ctx, review.ProductID); err != nil {
		s.log.Error("refreshing product rating", slog.String("product_id", review.ProductID), sl.Err(err))
	}
	return review, nil
}

// ListByProduct returns one page of approved reviews for a product.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string, page, limit int) ([]models.Review, int, error) {
	page, limit = ClampPage(page, limit)
	filter := repository.ReviewFilter{
		ProductID: productID,
		Status:    models.ReviewStatusApproved,
		Page:      page,
		Limit:     limit,
	}

	start := time.Now()
	reviews, total, err := s.reviews.List(ctx, filter)
	metric.ObserveDb("review_list", start, err)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return reviews, total, nil
}

// refreshProductRating recomputes the aggregate from scratch over the
// approved reviews and persists it. Average is rounded to one decimal.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID string) error {
	avg, count, err := s.reviews.ApprovedStats(ctx, productID)
	if err != nil {
		return err
	}
	rating := math.Round(avg*10) / 10

	start := time.Now()
	err = s.products.UpdateRating(ctx, productID, rating, count)
	metric.ObserveDb("product_rating", start, err)
	return err
}
