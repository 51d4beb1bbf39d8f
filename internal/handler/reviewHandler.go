package handler

import (
	"context"
	"net/http"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/models"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewProvider is the slice of the review service the HTTP layer
// needs.
//
//go:generate mockery --name=ReviewProvider --output=./mocks --case=underscore
type ReviewProvider interface {
	Create(ctx context.Context, userID string, in service.CreateReviewInput) (models.Review, error)
	Moderate(ctx context.Context, id string, in service.ModerateReviewInput) (models.Review, error)
	ListByProduct(ctx context.Context, productID string, page, limit int) ([]models.Review, int, error)
}

type ReviewHandler struct {
	service ReviewProvider
}

func NewReviewHandler(s ReviewProvider) *ReviewHandler {
	return &ReviewHandler{service: s}
}

// CreateReviewHandler submits a review. It lands in the moderation
// queue, not on the product page.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var in service.CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}
	uid, _ := authedUserID(c)

	review, err := h.service.Create(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"review": review})
}

// ModerateReviewHandler approves or rejects a pending review. Admin
// only.
func (h *ReviewHandler) ModerateReviewHandler(c *gin.Context) {
	var in service.ModerateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	review, err := h.service.Moderate(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"review": review})
}

// ListProductReviewsHandler lists the approved reviews of a product.
func (h *ReviewHandler) ListProductReviewsHandler(c *gin.Context) {
	page, limit := pageArgs(c)

	reviews, total, err := h.service.ListByProduct(c.Request.Context(), c.Param("productId"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"reviews": reviews, "pagination": pagination(page, limit, total)})
}
