package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// OrderStatuses lists every member of the status enumeration; anything
// outside this set is rejected by the workflow.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// ValidOrderStatus reports membership in the fixed status enumeration.
func ValidOrderStatus(s OrderStatus) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus tracks how far payment has progressed for an order.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethod is the customer's chosen way to pay.
type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodBkash PaymentMethod = "bkash"
	PaymentMethodNagad PaymentMethod = "nagad"
	PaymentMethodCard  PaymentMethod = "card"
)

// CustomerInfo is the denormalized contact triple captured on the order,
// kept even for guest checkouts where no user record exists.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ShippingAddress is the denormalized delivery address. Region keys the
// flat-rate shipping table.
type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
}

// OrderItem is a snapshot of a product at order-creation time. Title,
// image and price are copied, never re-derived from the live product,
// so the order stays historically accurate.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Variant   string          `json:"variant,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// TimelineEntry is one record of the append-only status history.
// Entries are never edited or removed.
type TimelineEntry struct {
	Status  OrderStatus `json:"status"`
	Message string      `json:"message"`
	Actor   string      `json:"actor"`
	At      time.Time   `json:"at"`
}

// CourierInfo is attached when the order ships.
type CourierInfo struct {
	Name           string `json:"name"`
	TrackingNumber string `json:"trackingNumber"`
}

// PaymentVerification is the admin's manual attestation that payment was
// received. There is no gateway reconciliation behind it.
type PaymentVerification struct {
	TransactionID string          `json:"transactionId"`
	SenderNumber  string          `json:"senderNumber"`
	Amount        decimal.Decimal `json:"amount"`
	VerifiedBy    string          `json:"verifiedBy"`
	VerifiedAt    time.Time       `json:"verifiedAt"`
}

// ReturnStatus tracks the return-request sub-flow.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// ReturnRequest records a customer's wish to return a delivered order.
// It does not itself move stock or money.
type ReturnRequest struct {
	Reason      string       `json:"reason"`
	Status      ReturnStatus `json:"status"`
	RequestedAt time.Time    `json:"requestedAt"`
}

// Order is the persisted order aggregate. OrderNumber is the
// human-readable identifier shown to customers; it is unique and
// immutable once assigned. Total is computed once at creation and
// must equal Subtotal + ShippingCost - Discount exactly.
type Order struct {
	ID              string               `json:"id"`
	OrderNumber     string               `json:"orderNumber"`
	UserID          *string              `json:"userId,omitempty"`
	Customer        CustomerInfo         `json:"customer"`
	ShippingAddress ShippingAddress      `json:"shippingAddress"`
	Items           []OrderItem          `json:"items"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	ShippingCost    decimal.Decimal      `json:"shippingCost"`
	Discount        decimal.Decimal      `json:"discount"`
	Total           decimal.Decimal      `json:"total"`
	PaymentMethod   PaymentMethod        `json:"paymentMethod"`
	PaymentStatus   PaymentStatus        `json:"paymentStatus"`
	Payment         *PaymentVerification `json:"payment,omitempty"`
	Status          OrderStatus          `json:"status"`
	Timeline        []TimelineEntry      `json:"timeline"`
	Courier         *CourierInfo         `json:"courier,omitempty"`
	Return          *ReturnRequest       `json:"return,omitempty"`
	DeliveredAt     *time.Time           `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// ItemCount is the total number of units across all line items.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ContainsProduct reports whether any line item references the product.
func (o Order) ContainsProduct(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
