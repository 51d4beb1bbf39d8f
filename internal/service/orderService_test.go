package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/models"
	notifymocks "dokan-backend/internal/notify/mocks"
	"dokan-backend/internal/service/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	productRiceID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	productOilID   = "2f1d7a8c-3b4e-4d5f-8a6b-9c0d1e2f3a4b"
	sampleOrderID  = "9b2e8f3a-1c4d-4e5f-9a6b-7c8d9e0f1a2b"
	sampleOrderNum = "DKN-20260825-A1B2C3"
)

func setupOrder(t *testing.T) (*mocks.OrderRepository, *mocks.ProductRepository, *mocks.OrderCache, *notifymocks.Enqueuer, *OrderService) {
	orders := mocks.NewOrderRepository(t)
	products := mocks.NewProductRepository(t)
	cache := mocks.NewOrderCache(t)
	outbox := notifymocks.NewEnqueuer(t)
	svc := NewOrderService(orders, products, cache, outbox, testLogger())
	return orders, products, cache, outbox, svc
}

func catalogProduct(id, title, price string, stock int) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Slug:     slugify(title),
		Images:   []string{"https://cdn.example.com/" + slugify(title) + ".jpg"},
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

func cartInput() CreateOrderInput {
	return CreateOrderInput{
		Customer: CustomerInput{Name: "Rahim Uddin", Phone: "01712345678"},
		ShippingAddress: AddressInput{
			Street: "12 Green Road",
			City:   "Dhaka",
			Region: "Dhaka",
		},
		Items: []OrderItemInput{
			{ProductID: productRiceID, Quantity: 2},
			{ProductID: productOilID, Quantity: 1},
		},
		PaymentMethod: "cod",
	}
}

func sampleOrder(number, userID string, status models.OrderStatus) models.Order {
	uid := userID
	now := time.Now().Add(-time.Hour)
	return models.Order{
		ID:          sampleOrderID,
		OrderNumber: number,
		UserID:      &uid,
		Customer:    models.CustomerInfo{Name: "Rahim Uddin", Phone: "01712345678"},
		Items: []models.OrderItem{
			{ProductID: productRiceID, Title: "Miniket Rice 5kg", Price: decimal.RequireFromString("550.00"), Quantity: 2, Subtotal: decimal.RequireFromString("1100.00")},
		},
		Subtotal:      decimal.RequireFromString("1100.00"),
		ShippingCost:  decimal.NewFromInt(60),
		Discount:      decimal.Zero,
		Total:         decimal.RequireFromString("1160.00"),
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusUnpaid,
		Status:        status,
		Timeline: []models.TimelineEntry{
			{Status: models.OrderStatusPending, Message: "Order placed", Actor: "customer", At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// A priced cart turns into a pending order: snapshots at catalog
// prices, Dhaka flat shipping, COD starting unpaid, and a DKN number.
func TestOrderService_Create_Success(t *testing.T) {
	orders, products, cache, outbox, svc := setupOrder(t)
	userID := "u-1"

	products.On("GetByID", mock.Anything, productRiceID).Return(catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10), nil)
	products.On("GetByID", mock.Anything, productOilID).Return(catalogProduct(productOilID, "Soybean Oil 1L", "120.50", 5), nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.Subtotal.Equal(decimal.RequireFromString("1220.50")) &&
			o.ShippingCost.Equal(decimal.NewFromInt(60)) &&
			o.Total.Equal(decimal.RequireFromString("1280.50")) &&
			o.Status == models.OrderStatusPending &&
			o.PaymentStatus == models.PaymentStatusUnpaid &&
			strings.HasPrefix(o.OrderNumber, "DKN-") &&
			len(o.Timeline) == 1 && o.Timeline[0].Actor == "customer"
	})).Return(nil)
	cache.On("Set", mock.Anything, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	order, err := svc.Create(context.Background(), &userID, cartInput())

	assert.NoError(t, err)
	assert.Regexp(t, `^DKN-\d{8}-[A-Z0-9]{6}$`, order.OrderNumber)
	assert.Equal(t, "Miniket Rice 5kg", order.Items[0].Title)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("1280.50")))
	orders.AssertExpectations(t)
}

// Five units to Sylhet: 110 base plus 10 per unit beyond three.
func TestOrderService_Create_ShippingSurcharge(t *testing.T) {
	orders, products, cache, outbox, svc := setupOrder(t)

	products.On("GetByID", mock.Anything, productRiceID).Return(catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10), nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.ShippingCost.Equal(decimal.NewFromInt(130))
	})).Return(nil)
	cache.On("Set", mock.Anything, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	in := cartInput()
	in.ShippingAddress.Region = "Sylhet"
	in.Items = []OrderItemInput{{ProductID: productRiceID, Quantity: 5}}

	_, err := svc.Create(context.Background(), nil, in)

	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrderService_Create_GuestActor(t *testing.T) {
	orders, products, cache, outbox, svc := setupOrder(t)

	products.On("GetByID", mock.Anything, mock.Anything).Return(catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10), nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.UserID == nil && o.Timeline[0].Actor == "guest"
	})).Return(nil)
	cache.On("Set", mock.Anything, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	in := cartInput()
	in.Items = in.Items[:1]

	_, err := svc.Create(context.Background(), nil, in)

	assert.NoError(t, err)
}

func TestOrderService_Create_UnknownProduct(t *testing.T) {
	orders, products, _, _, svc := setupOrder(t)

	products.On("GetByID", mock.Anything, productRiceID).Return(models.Product{}, repository.ErrNotFound)

	in := cartInput()
	in.Items = in.Items[:1]

	_, err := svc.Create(context.Background(), nil, in)

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_InactiveProduct(t *testing.T) {
	orders, products, _, _, svc := setupOrder(t)
	p := catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10)
	p.IsActive = false

	products.On("GetByID", mock.Anything, productRiceID).Return(p, nil)

	in := cartInput()
	in.Items = in.Items[:1]

	_, err := svc.Create(context.Background(), nil, in)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// The pre-check catches a cart asking for more than the shelf holds
// before any transaction starts.
func TestOrderService_Create_InsufficientStockPrecheck(t *testing.T) {
	orders, products, _, _, svc := setupOrder(t)

	products.On("GetByID", mock.Anything, productRiceID).Return(catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 1), nil)

	in := cartInput()
	in.Items = []OrderItemInput{{ProductID: productRiceID, Quantity: 2}}

	_, err := svc.Create(context.Background(), nil, in)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not enough stock for Miniket Rice 5kg")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Two buyers race for the last unit: the pre-check passes for both, the
// conditional decrement fails for the loser, and the loser's order
// leaves no trace, no cache entry and no notification.
func TestOrderService_Create_LosesStockRace(t *testing.T) {
	orders, products, cache, outbox, svc := setupOrder(t)

	products.On("GetByID", mock.Anything, productRiceID).Return(catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 1), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(&repository.InsufficientStockError{ProductID: productRiceID})

	in := cartInput()
	in.Items = []OrderItemInput{{ProductID: productRiceID, Quantity: 1}}

	_, err := svc.Create(context.Background(), nil, in)

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "Miniket Rice 5kg")
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

// A colliding order number is regenerated, not surfaced.
func TestOrderService_Create_RetriesNumberCollision(t *testing.T) {
	orders, products, cache, outbox, svc := setupOrder(t)

	products.On("GetByID", mock.Anything, productRiceID).Return(catalogProduct(productRiceID, "Miniket Rice 5kg", "550.00", 10), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateNumber).Twice()
	orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	cache.On("Set", mock.Anything, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	in := cartInput()
	in.Items = in.Items[:1]

	_, err := svc.Create(context.Background(), nil, in)

	assert.NoError(t, err)
	orders.AssertNumberOfCalls(t, "Create", 3)
}

func TestOrderService_Create_EmptyCart(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)

	in := cartInput()
	in.Items = nil

	_, err := svc.Create(context.Background(), nil, in)

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Track_CacheHit(t *testing.T) {
	orders, _, cache, _, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusShipped)

	cache.On("Get", sampleOrderNum).Return(&order, true)

	view, err := svc.Track(context.Background(), sampleOrderNum)

	assert.NoError(t, err)
	assert.Equal(t, sampleOrderNum, view.OrderNumber)
	orders.AssertNotCalled(t, "GetByNumber", mock.Anything, mock.Anything)
}

func TestOrderService_Track_CacheMissLoadsAndCaches(t *testing.T) {
	orders, _, cache, _, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusShipped)
	order.Courier = &models.CourierInfo{Name: "Pathao", TrackingNumber: "PT-9182"}

	cache.On("Get", sampleOrderNum).Return(nil, false)
	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)
	cache.On("Set", sampleOrderNum, mock.Anything).Return()

	view, err := svc.Track(context.Background(), sampleOrderNum)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, view.Status)
	assert.Equal(t, "Pathao", view.Courier.Name)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, "Miniket Rice 5kg", view.Items[0].Title)
	assert.Len(t, view.Timeline, 1)
	cache.AssertExpectations(t)
}

func TestOrderService_Track_NotFound(t *testing.T) {
	orders, _, cache, _, svc := setupOrder(t)

	cache.On("Get", "DKN-20260825-ZZZZZZ").Return(nil, false)
	orders.On("GetByNumber", mock.Anything, "DKN-20260825-ZZZZZZ").Return(models.Order{}, repository.ErrNotFound)

	_, err := svc.Track(context.Background(), "DKN-20260825-ZZZZZZ")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderService_GetForOwner_RejectsOthers(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusPending)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)

	_, err := svc.GetForOwner(context.Background(), sampleOrderNum, "u-1")
	assert.NoError(t, err)

	_, err = svc.GetForOwner(context.Background(), sampleOrderNum, "u-2")
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderService_ListMine_ClampsPaging(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)

	orders.On("ListByUser", mock.Anything, "u-1", 1, 10).Return([]models.Order{}, 0, nil)

	_, _, err := svc.ListMine(context.Background(), "u-1", 0, 0)

	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

// Delivering stamps the delivery time and appends a timeline entry under
// the acting admin's identity.
func TestOrderService_UpdateStatus_Delivered(t *testing.T) {
	orders, _, cache, outbox, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusShipped)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything,
		mock.MatchedBy(func(o models.Order) bool {
			return o.Status == models.OrderStatusDelivered && o.DeliveredAt != nil
		}),
		mock.MatchedBy(func(e models.TimelineEntry) bool {
			return e.Status == models.OrderStatusDelivered && e.Actor == "admin-1" && e.Message == "Status updated to delivered"
		}),
	).Return(nil)
	cache.On("Set", sampleOrderNum, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), sampleOrderNum, UpdateStatusInput{Status: "delivered"}, "admin-1")

	assert.NoError(t, err)
	assert.NotNil(t, updated.DeliveredAt)
	assert.Len(t, updated.Timeline, 2)
	orders.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_AttachesCourier(t *testing.T) {
	orders, _, cache, outbox, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusProcessing)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.Courier != nil && o.Courier.Name == "Pathao" && o.Courier.TrackingNumber == "PT-9182"
	}), mock.Anything).Return(nil)
	cache.On("Set", sampleOrderNum, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UpdateStatus(context.Background(), sampleOrderNum, UpdateStatusInput{
		Status:         "shipped",
		CourierName:    "Pathao",
		TrackingNumber: "PT-9182",
	}, "admin-1")

	assert.NoError(t, err)
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)

	_, err := svc.UpdateStatus(context.Background(), sampleOrderNum, UpdateStatusInput{Status: "teleported"}, "admin-1")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	orders.AssertNotCalled(t, "GetByNumber", mock.Anything, mock.Anything)
}

// Returned is reachable only from delivered and only after the customer
// filed a return request.
func TestOrderService_UpdateStatus_ReturnedGate(t *testing.T) {
	orders, _, cache, outbox, svc := setupOrder(t)

	delivered := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusDelivered)
	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(delivered, nil).Once()

	_, err := svc.UpdateStatus(context.Background(), sampleOrderNum, UpdateStatusInput{Status: "returned"}, "admin-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_transition")

	shipped := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusShipped)
	shipped.Return = &models.ReturnRequest{Reason: "damaged box", Status: models.ReturnStatusPending, RequestedAt: time.Now()}
	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(shipped, nil).Once()

	_, err = svc.UpdateStatus(context.Background(), sampleOrderNum, UpdateStatusInput{Status: "returned"}, "admin-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_transition")

	ready := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusDelivered)
	ready.Return = &models.ReturnRequest{Reason: "damaged box", Status: models.ReturnStatusPending, RequestedAt: time.Now()}
	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(ready, nil).Once()
	orders.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.Status == models.OrderStatusReturned && o.Return != nil && o.Return.Status == models.ReturnStatusApproved
	}), mock.Anything).Return(nil)
	cache.On("Set", sampleOrderNum, mock.Anything).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), sampleOrderNum, UpdateStatusInput{Status: "returned"}, "admin-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ReturnStatusApproved, updated.Return.Status)
}

func TestOrderService_VerifyPayment_MarksPaid(t *testing.T) {
	orders, _, cache, outbox, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusConfirmed)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)
	orders.On("VerifyPayment", mock.Anything, order.ID, mock.MatchedBy(func(v models.PaymentVerification) bool {
		return v.TransactionID == "TX-77A1" && v.VerifiedBy == "admin-1" && v.Amount.Equal(decimal.RequireFromString("1160.00"))
	})).Return(nil)
	cache.On("Invalidate", sampleOrderNum).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.VerifyPayment(context.Background(), sampleOrderNum, VerifyPaymentInput{
		TransactionID: "TX-77A1",
		SenderNumber:  "01712345678",
		Amount:        decimal.RequireFromString("1160.00"),
	}, "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	// Payment verification leaves the status history alone.
	assert.Len(t, updated.Timeline, 1)
	orders.AssertExpectations(t)
}

func TestOrderService_VerifyPayment_RejectsNonPositiveAmount(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)

	_, err := svc.VerifyPayment(context.Background(), sampleOrderNum, VerifyPaymentInput{
		TransactionID: "TX-77A1",
		SenderNumber:  "01712345678",
		Amount:        decimal.Zero,
	}, "admin-1")

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	orders.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_RequestReturn_Success(t *testing.T) {
	orders, _, cache, outbox, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusDelivered)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)
	orders.On("SetReturnRequest", mock.Anything, order.ID,
		mock.MatchedBy(func(r models.ReturnRequest) bool {
			return r.Status == models.ReturnStatusPending && r.Reason == "wrong size delivered"
		}),
		mock.Anything,
	).Return(nil)
	cache.On("Invalidate", sampleOrderNum).Return()
	outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.RequestReturn(context.Background(), sampleOrderNum, "u-1", ReturnRequestInput{Reason: "wrong size delivered"})

	assert.NoError(t, err)
	// The order status itself does not change until an admin acts.
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.NotNil(t, updated.Return)
	orders.AssertExpectations(t)
}

func TestOrderService_RequestReturn_OnlyDelivered(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusShipped)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)

	_, err := svc.RequestReturn(context.Background(), sampleOrderNum, "u-1", ReturnRequestInput{Reason: "changed my mind"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only delivered orders")
	orders.AssertNotCalled(t, "SetReturnRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_RequestReturn_AlreadyRequested(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusDelivered)
	order.Return = &models.ReturnRequest{Reason: "damaged box", Status: models.ReturnStatusPending, RequestedAt: time.Now()}

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)

	_, err := svc.RequestReturn(context.Background(), sampleOrderNum, "u-1", ReturnRequestInput{Reason: "damaged box"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already recorded")
}

func TestOrderService_RequestReturn_NotOwner(t *testing.T) {
	orders, _, _, _, svc := setupOrder(t)
	order := sampleOrder(sampleOrderNum, "u-1", models.OrderStatusDelivered)

	orders.On("GetByNumber", mock.Anything, sampleOrderNum).Return(order, nil)

	_, err := svc.RequestReturn(context.Background(), sampleOrderNum, "u-2", ReturnRequestInput{Reason: "damaged box"})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestShippingCost(t *testing.T) {
	cases := []struct {
		region string
		units  int
		want   int64
	}{
		{"dhaka", 1, 60},
		{"Dhaka", 3, 60},
		{"chattogram", 2, 100},
		{"sylhet", 5, 130},
		{"khulna", 4, 120},
		{"rajshahi", 1, 110},
		{"barishal", 1, 150},
		{"", 10, 220},
	}
	for _, c := range cases {
		got := shippingCost(c.region, c.units)
		assert.True(t, got.Equal(decimal.NewFromInt(c.want)), "region %q units %d: got %s", c.region, c.units, got)
	}
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		num, err := generateOrderNumber(now)
		assert.NoError(t, err)
		assert.Regexp(t, `^DKN-20260825-[A-Z0-9]{6}$`, num)
		seen[num] = true
	}
	assert.Greater(t, len(seen), 1)
}
