package handler

import (
	"context"
	"net/http"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/models"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogProvider is the slice of the catalog service the HTTP layer
// needs.
//
//go:generate mockery --name=CatalogProvider --output=./mocks --case=underscore
type CatalogProvider interface {
	List(ctx context.Context, category, sort string, page, limit int) ([]models.Product, int, error)
	Get(ctx context.Context, idOrSlug string) (models.Product, error)
	Create(ctx context.Context, in service.CreateProductInput) (models.Product, error)
}

type ProductHandler struct {
	service CatalogProvider
}

func NewProductHandler(s CatalogProvider) *ProductHandler {
	return &ProductHandler{service: s}
}

// ListProductsHandler lists active products, filtered and sorted off
// the query string.
func (h *ProductHandler) ListProductsHandler(c *gin.Context) {
	page, limit := pageArgs(c)

	products, total, err := h.service.List(c.Request.Context(), c.Query("category"), c.Query("sort"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"products": products, "pagination": pagination(page, limit, total)})
}

// GetProductHandler resolves one product by id or slug.
func (h *ProductHandler) GetProductHandler(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) CreateProductHandler(c *gin.Context) {
	var in service.CreateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	product, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"product": product})
}
