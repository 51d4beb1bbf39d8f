package handler

import (
	"context"
	"net/http"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/models"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderProvider is the slice of the order service the HTTP layer needs.
//
//go:generate mockery --name=OrderProvider --output=./mocks --case=underscore
type OrderProvider interface {
	Create(ctx context.Context, userID *string, in service.CreateOrderInput) (models.Order, error)
	Track(ctx context.Context, number string) (service.TrackingView, error)
	ListMine(ctx context.Context, userID string, page, limit int) ([]models.Order, int, error)
	GetForOwner(ctx context.Context, number, userID string) (models.Order, error)
	UpdateStatus(ctx context.Context, number string, in service.UpdateStatusInput, actor string) (models.Order, error)
	VerifyPayment(ctx context.Context, number string, in service.VerifyPaymentInput, actor string) (models.Order, error)
	RequestReturn(ctx context.Context, number, userID string, in service.ReturnRequestInput) (models.Order, error)
}

type OrderHandler struct {
	service OrderProvider
}

func NewOrderHandler(s OrderProvider) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrderHandler places an order. The route allows guests, so the
// user id is attached only when a session is present.
func (h *OrderHandler) CreateOrderHandler(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	var uid *string
	if id, authed := authedUserID(c); authed {
		uid = &id
	}

	order, err := h.service.Create(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"order": order})
}

// TrackOrderHandler is the public tracking endpoint. The view is
// redacted to what a courier slip would show.
func (h *OrderHandler) TrackOrderHandler(c *gin.Context) {
	view, err := h.service.Track(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": view})
}

func (h *OrderHandler) ListOrdersHandler(c *gin.Context) {
	uid, _ := authedUserID(c)
	page, limit := pageArgs(c)

	orders, total, err := h.service.ListMine(c.Request.Context(), uid, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"orders": orders, "pagination": pagination(page, limit, total)})
}

// GetOrderHandler returns the full order, owner only.
func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	uid, _ := authedUserID(c)

	order, err := h.service.GetForOwner(c.Request.Context(), c.Param("orderNumber"), uid)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) RequestReturnHandler(c *gin.Context) {
	var in service.ReturnRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}
	uid, _ := authedUserID(c)

	order, err := h.service.RequestReturn(c.Request.Context(), c.Param("orderNumber"), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}

// UpdateStatusHandler moves an order through fulfilment. Admin only;
// the admin id is recorded as the timeline actor.
func (h *OrderHandler) UpdateStatusHandler(c *gin.Context) {
	var in service.UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}
	actor, _ := authedUserID(c)

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("orderNumber"), in, actor)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) VerifyPaymentHandler(c *gin.Context) {
	var in service.VerifyPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}
	actor, _ := authedUserID(c)

	order, err := h.service.VerifyPayment(c.Request.Context(), c.Param("orderNumber"), in, actor)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}
