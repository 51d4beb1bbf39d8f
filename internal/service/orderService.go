// Package service contains the application's business logic: the order
// workflow, OTP-gated authentication, review moderation and the catalog
// plumbing they rely on. Services validate their inputs, talk to the
// repositories through narrow interfaces and return apperr values the
// HTTP layer knows how to map.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/logger/sl"
	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"
	"dokan-backend/internal/notify"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OrderRepository persists the order aggregate and its side tables.
//
//go:generate mockery --name=OrderRepository --output=./mocks --case=underscore
type OrderRepository interface {
	Create(ctx context.Context, order models.Order) error
	GetByID(ctx context.Context, id string) (models.Order, error)
	GetByNumber(ctx context.Context, number string) (models.Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, order models.Order, entry models.TimelineEntry) error
	VerifyPayment(ctx context.Context, orderID string, v models.PaymentVerification) error
	SetReturnRequest(ctx context.Context, orderID string, req models.ReturnRequest, entry models.TimelineEntry) error
}

// OrderCache holds recently tracked orders in memory.
//
//go:generate mockery --name=OrderCache --output=./mocks --case=underscore
type OrderCache interface {
	Set(number string, order *models.Order)
	Get(number string) (*models.Order, bool)
	Invalidate(number string)
}

type OrderItemInput struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
	Variant   string `json:"variant" validate:"omitempty,max=50"`
}

type CustomerInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"required,len=11,numeric,startswith=01"`
}

type AddressInput struct {
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	Region     string `json:"region" validate:"required,max=50"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
}

type CreateOrderInput struct {
	Customer        CustomerInput    `json:"customer"`
	ShippingAddress AddressInput     `json:"shippingAddress"`
	Items           []OrderItemInput `json:"items" validate:"min=1,max=50,dive"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required,oneof=cod bkash nagad card"`
	// Accepted for forward compatibility, not applied: discount stays 0.
	DiscountCode string `json:"discountCode" validate:"omitempty,max=50"`
}

type UpdateStatusInput struct {
	Status         string `json:"status" validate:"required"`
	Message        string `json:"message" validate:"omitempty,max=500"`
	CourierName    string `json:"courierName" validate:"omitempty,max=100"`
	TrackingNumber string `json:"trackingNumber" validate:"omitempty,max=100"`
}

type VerifyPaymentInput struct {
	TransactionID string          `json:"transactionId" validate:"required,max=100"`
	SenderNumber  string          `json:"senderNumber" validate:"required,max=20"`
	Amount        decimal.Decimal `json:"amount"`
}

type ReturnRequestInput struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

// TrackingView is the public projection served by the tracking
// endpoint: no customer contact, no address, no actor identities.
type TrackingView struct {
	OrderNumber   string               `json:"orderNumber"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Items         []TrackingItem       `json:"items"`
	Total         decimal.Decimal      `json:"total"`
	Timeline      []TrackingEvent      `json:"timeline"`
	Courier       *models.CourierInfo  `json:"courier,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	DeliveredAt   *time.Time           `json:"deliveredAt,omitempty"`
}

type TrackingItem struct {
	Title    string `json:"title"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
}

type TrackingEvent struct {
	Status  models.OrderStatus `json:"status"`
	Message string             `json:"message"`
	At      time.Time          `json:"at"`
}

// OrderService drives the order lifecycle: creation with stock
// reservation and pricing, public tracking, and the admin-facing
// status, payment and return flows.
type OrderService struct {
	orders   OrderRepository
	products ProductRepository
	cache    OrderCache
	outbox   notify.Enqueuer
	validate *validator.Validate
	log      *slog.Logger
}

func NewOrderService(orders OrderRepository, products ProductRepository, cache OrderCache, outbox notify.Enqueuer, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		cache:    cache,
		outbox:   outbox,
		validate: newValidator(),
		log:      log,
	}
}

const orderNumberRetries = 3

// Create validates the cart against the live catalog, prices it,
// assigns an order number and persists everything in one transaction
// that also decrements stock. No partial order can survive a failure:
// the repository rolls back on the first line item short on stock.
func (s *OrderService) Create(ctx context.Context, userID *string, in CreateOrderInput) (models.Order, error) {
	tr := otel.Tracer("orderService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		metric.OrdersTotal.WithLabelValues("invalid").Inc()
		return models.Order{}, invalidInput(err)
	}

	// Snapshot every line item at today's catalog values. The snapshots
	// are the permanent record even if the product changes later.
	items := make([]models.OrderItem, 0, len(in.Items))
	titles := make(map[string]string, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		product, err := s.products.GetByID(ctx, it.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			metric.OrdersTotal.WithLabelValues("rejected").Inc()
			return models.Order{}, apperr.NotFound("product " + it.ProductID)
		}
		if err != nil {
			span.RecordError(err)
			metric.OrdersTotal.WithLabelValues("error").Inc()
			return models.Order{}, apperr.Internal(err)
		}
		if !product.IsActive {
			metric.OrdersTotal.WithLabelValues("rejected").Inc()
			return models.Order{}, apperr.Conflict("product_unavailable", fmt.Sprintf("%s is not available right now", product.Title))
		}
		if product.Stock < it.Quantity {
			metric.OrdersTotal.WithLabelValues("conflict").Inc()
			return models.Order{}, apperr.Conflict("insufficient_stock", fmt.Sprintf("not enough stock for %s", product.Title))
		}

		lineSubtotal := product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Image:     product.MainImage(),
			Price:     product.Price,
			Quantity:  it.Quantity,
			Variant:   it.Variant,
			Subtotal:  lineSubtotal,
		})
		titles[product.ID] = product.Title
		subtotal = subtotal.Add(lineSubtotal)
	}

	now := time.Now()
	method := models.PaymentMethod(in.PaymentMethod)
	actor := "guest"
	if userID != nil {
		actor = "customer"
	}

	order := models.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Customer: models.CustomerInfo{
			Name:  in.Customer.Name,
			Email: in.Customer.Email,
			Phone: in.Customer.Phone,
		},
		ShippingAddress: models.ShippingAddress{
			Street:     in.ShippingAddress.Street,
			City:       in.ShippingAddress.City,
			Region:     in.ShippingAddress.Region,
			PostalCode: in.ShippingAddress.PostalCode,
		},
		Items:         items,
		Subtotal:      subtotal,
		Discount:      decimal.Zero,
		PaymentMethod: method,
		PaymentStatus: initialPaymentStatus(method),
		Status:        models.OrderStatusPending,
		Timeline: []models.TimelineEntry{
			{Status: models.OrderStatusPending, Message: "Order placed", Actor: actor, At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.ShippingCost = shippingCost(in.ShippingAddress.Region, order.ItemCount())
	order.Total = order.Subtotal.Add(order.ShippingCost).Sub(order.Discount)

	// The unique index on order_number is the real uniqueness guarantee;
	// the generator only has to make collisions rare.
	start := time.Now()
	var err error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		if order.OrderNumber, err = generateOrderNumber(now); err != nil {
			return models.Order{}, apperr.Internal(err)
		}
		if err = s.orders.Create(ctx, order); !errors.Is(err, repository.ErrDuplicateNumber) {
			break
		}
	}
	metric.ObserveDb("order_create", start, err)

	var stockErr *repository.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		metric.OrdersTotal.WithLabelValues("conflict").Inc()
		title := titles[stockErr.ProductID]
		if title == "" {
			title = stockErr.ProductID
		}
		return models.Order{}, apperr.Conflict("insufficient_stock", fmt.Sprintf("not enough stock for %s", title))
	case err != nil:
		span.RecordError(err)
		metric.OrdersTotal.WithLabelValues("error").Inc()
		return models.Order{}, apperr.Internal(err)
	}

	metric.OrdersTotal.WithLabelValues("created").Inc()
	span.SetAttributes(attribute.String("order_number", order.OrderNumber))

	s.cache.Set(order.OrderNumber, &order)
	s.notifyOrderPlaced(ctx, order)
	s.log.Info("order created",
		slog.String("order_number", order.OrderNumber),
		slog.String("total", order.Total.StringFixed(2)),
		slog.Int("items", len(order.Items)),
		sl.Traced(ctx),
	)
	return order, nil
}

// Track returns the public view for an order number. Reads go through
// the TTL cache; the projection never exposes customer details.
func (s *OrderService) Track(ctx context.Context, number string) (TrackingView, error) {
	tr := otel.Tracer("orderService")
	ctx, span := tr.Start(ctx, "Track")
	defer span.End()

	if cached, ok := s.cache.Get(number); ok {
		metric.CacheHitsTotal.WithLabelValues("hit").Inc()
		return trackingView(cached), nil
	}
	metric.CacheHitsTotal.WithLabelValues("miss").Inc()
	span.SetAttributes(attribute.String("order_number", number))

	order, err := s.getByNumber(ctx, number)
	if err != nil {
		span.RecordError(err)
		return TrackingView{}, err
	}

	s.cache.Set(number, &order)
	return trackingView(&order), nil
}

// ListMine returns one page of the caller's own orders.
func (s *OrderService) ListMine(ctx context.Context, userID string, page, limit int) ([]models.Order, int, error) {
	page, limit = ClampPage(page, limit)

	start := time.Now()
	orders, total, err := s.orders.ListByUser(ctx, userID, page, limit)
	metric.ObserveDb("order_list", start, err)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return orders, total, nil
}

// GetForOwner returns the full order only to its owner. Anyone else
// gets a not-found, never a hint that the number exists.
func (s *OrderService) GetForOwner(ctx context.Context, number, userID string) (models.Order, error) {
	order, err := s.getByNumber(ctx, number)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return models.Order{}, apperr.NotFound("order")
	}
	return order, nil
}

// UpdateStatus applies an admin-driven transition. Any member of the
// status enumeration is reachable from any other, except returned,
// which requires a delivered order with a recorded return request.
func (s *OrderService) UpdateStatus(ctx context.Context, number string, in UpdateStatusInput, actor string) (models.Order, error) {
	tr := otel.Tracer("orderService")
	ctx, span := tr.Start(ctx, "UpdateStatus")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return models.Order{}, invalidInput(err)
	}
	status := models.OrderStatus(in.Status)
	if !models.ValidOrderStatus(status) {
		return models.Order{}, apperr.Validation("status", "unknown status")
	}

	order, err := s.getByNumber(ctx, number)
	if err != nil {
		return models.Order{}, err
	}
	span.SetAttributes(attribute.String("order_number", number), attribute.String("status", string(status)))

	if status == models.OrderStatusReturned {
		if order.Status != models.OrderStatusDelivered || order.Return == nil {
			return models.Order{}, apperr.Conflict("invalid_transition",
				"orders move to returned only from delivered with a recorded return request")
		}
		order.Return.Status = models.ReturnStatusApproved
	}

	now := time.Now()
	order.Status = status
	if in.CourierName != "" || in.TrackingNumber != "" {
		order.Courier = &models.CourierInfo{Name: in.CourierName, TrackingNumber: in.TrackingNumber}
	}
	if status == models.OrderStatusDelivered && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}

	message := in.Message
	if message == "" {
		message = "Status updated to " + string(status)
	}
	entry := models.TimelineEntry{Status: status, Message: message, Actor: actor, At: now}

	start := time.Now()
	err = s.orders.UpdateStatus(ctx, order, entry)
	metric.ObserveDb("order_status", start, err)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, apperr.NotFound("order")
	}
	if err != nil {
		span.RecordError(err)
		return models.Order{}, apperr.Internal(err)
	}

	order.Timeline = append(order.Timeline, entry)
	order.UpdatedAt = now
	s.cache.Set(order.OrderNumber, &order)

	s.enqueue(ctx, notify.Message{
		Event:       notify.EventOrderStatus,
		Channel:     notify.ChannelSMS,
		Recipient:   order.Customer.Phone,
		Body:        fmt.Sprintf("Order %s update: %s.", order.OrderNumber, message),
		OrderNumber: order.OrderNumber,
	})
	return order, nil
}

// VerifyPayment records the manual payment attestation and marks the
// order paid. Re-verification overwrites the previous record.
func (s *OrderService) VerifyPayment(ctx context.Context, number string, in VerifyPaymentInput, actor string) (models.Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.Order{}, invalidInput(err)
	}
	if !in.Amount.IsPositive() {
		return models.Order{}, apperr.Validation("amount", "must be a positive amount")
	}

	order, err := s.getByNumber(ctx, number)
	if err != nil {
		return models.Order{}, err
	}

	v := models.PaymentVerification{
		TransactionID: in.TransactionID,
		SenderNumber:  in.SenderNumber,
		Amount:        in.Amount,
		VerifiedBy:    actor,
		VerifiedAt:    time.Now(),
	}

	start := time.Now()
	err = s.orders.VerifyPayment(ctx, order.ID, v)
	metric.ObserveDb("payment_verify", start, err)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, apperr.NotFound("order")
	}
	if err != nil {
		return models.Order{}, apperr.Internal(err)
	}

	order.Payment = &v
	order.PaymentStatus = models.PaymentStatusPaid
	s.cache.Invalidate(order.OrderNumber)

	s.enqueue(ctx, notify.Message{
		Event:       notify.EventPaymentVerified,
		Channel:     notify.ChannelSMS,
		Recipient:   order.Customer.Phone,
		Body:        fmt.Sprintf("Payment for order %s is confirmed. Thank you!", order.OrderNumber),
		OrderNumber: order.OrderNumber,
	})
	return order, nil
}

// RequestReturn records the owner's wish to return a delivered order.
// It mutates no stock and triggers no refund; those are admin
// follow-ups.
func (s *OrderService) RequestReturn(ctx context.Context, number, userID string, in ReturnRequestInput) (models.Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.Order{}, invalidInput(err)
	}

	order, err := s.GetForOwner(ctx, number, userID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status != models.OrderStatusDelivered {
		return models.Order{}, apperr.Conflict("order_not_returnable", "only delivered orders can be returned")
	}
	if order.Return != nil {
		return models.Order{}, apperr.Conflict("return_already_requested", "a return request is already recorded for this order")
	}

	now := time.Now()
	req := models.ReturnRequest{Reason: in.Reason, Status: models.ReturnStatusPending, RequestedAt: now}
	entry := models.TimelineEntry{Status: order.Status, Message: "Return requested: " + in.Reason, Actor: userID, At: now}

	start := time.Now()
	err = s.orders.SetReturnRequest(ctx, order.ID, req, entry)
	metric.ObserveDb("return_request", start, err)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, apperr.NotFound("order")
	}
	if err != nil {
		return models.Order{}, apperr.Internal(err)
	}

	order.Return = &req
	order.Timeline = append(order.Timeline, entry)
	s.cache.Invalidate(order.OrderNumber)

	s.enqueue(ctx, notify.Message{
		Event:       notify.EventReturnRequested,
		Channel:     notify.ChannelSMS,
		Recipient:   order.Customer.Phone,
		Body:        fmt.Sprintf("We received your return request for order %s. Our team will contact you.", order.OrderNumber),
		OrderNumber: order.OrderNumber,
	})
	return order, nil
}

func (s *OrderService) getByNumber(ctx context.Context, number string) (models.Order, error) {
	start := time.Now()
	order, err := s.orders.GetByNumber(ctx, number)
	metric.ObserveDb("order_get", start, err)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, apperr.NotFound("order")
	}
	if err != nil {
		return models.Order{}, apperr.Internal(err)
	}
	return order, nil
}

func (s *OrderService) notifyOrderPlaced(ctx context.Context, order models.Order) {
	body := fmt.Sprintf("Your order %s has been placed. Total: %s BDT. Use the order number to track delivery.",
		order.OrderNumber, order.Total.StringFixed(2))

	s.enqueue(ctx, notify.Message{
		Event:       notify.EventOrderPlaced,
		Channel:     notify.ChannelSMS,
		Recipient:   order.Customer.Phone,
		Body:        body,
		OrderNumber: order.OrderNumber,
	})
	if order.Customer.Email != "" {
		s.enqueue(ctx, notify.Message{
			Event:       notify.EventOrderPlaced,
			Channel:     notify.ChannelEmail,
			Recipient:   order.Customer.Email,
			Subject:     "Order " + order.OrderNumber + " confirmed",
			Body:        body,
			OrderNumber: order.OrderNumber,
		})
	}
}

// enqueue is best-effort: a dead broker must never fail the operation
// that produced the message.
func (s *OrderService) enqueue(ctx context.Context, msg notify.Message) {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	if err := s.outbox.Enqueue(ctx, msg); err != nil {
		s.log.Warn("enqueueing notification", sl.Err(err), slog.String("event", string(msg.Event)))
	}
}

func trackingView(order *models.Order) TrackingView {
	items := make([]TrackingItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, TrackingItem{Title: it.Title, Image: it.Image, Quantity: it.Quantity})
	}
	timeline := make([]TrackingEvent, 0, len(order.Timeline))
	for _, e := range order.Timeline {
		timeline = append(timeline, TrackingEvent{Status: e.Status, Message: e.Message, At: e.At})
	}
	return TrackingView{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Items:         items,
		Total:         order.Total,
		Timeline:      timeline,
		Courier:       order.Courier,
		CreatedAt:     order.CreatedAt,
		DeliveredAt:   order.DeliveredAt,
	}
}

// Flat delivery rates per region in taka; unlisted regions pay the
// default. An extra per-unit fee applies beyond three units.
var shippingRates = map[string]decimal.Decimal{
	"dhaka":      decimal.NewFromInt(60),
	"chattogram": decimal.NewFromInt(100),
	"sylhet":     decimal.NewFromInt(110),
	"khulna":     decimal.NewFromInt(110),
	"rajshahi":   decimal.NewFromInt(110),
}

var (
	defaultShippingRate = decimal.NewFromInt(150)
	bulkUnitSurcharge   = decimal.NewFromInt(10)
)

const surchargeFreeUnits = 3

func shippingCost(region string, totalUnits int) decimal.Decimal {
	rate, ok := shippingRates[strings.ToLower(region)]
	if !ok {
		rate = defaultShippingRate
	}
	if extra := totalUnits - surchargeFreeUnits; extra > 0 {
		rate = rate.Add(bulkUnitSurcharge.Mul(decimal.NewFromInt(int64(extra))))
	}
	return rate
}

func initialPaymentStatus(method models.PaymentMethod) models.PaymentStatus {
	if method == models.PaymentMethodCOD {
		return models.PaymentStatusUnpaid
	}
	return models.PaymentStatusPending
}

// orderNumberAlphabet drops the easily confused I, L, O and U.
const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"

// generateOrderNumber builds a human-readable token: fixed prefix, the
// order date, and six random characters. 32^6 combinations per day keep
// collisions rare; the unique index catches the rest.
func generateOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating order number: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("DKN-%s-%s", now.Format("20060102"), buf), nil
}
