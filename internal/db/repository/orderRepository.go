package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"dokan-backend/internal/models"

	"github.com/shopspring/decimal"
)

const orderColumns = `id, order_number, user_id, customer_name, customer_email, customer_phone,
    ship_street, ship_city, ship_region, ship_postal_code,
    payment_method, payment_status, status, subtotal, shipping_cost, discount, total,
    courier_name, courier_tracking,
    payment_tx_id, payment_sender, payment_amount, payment_verified_by, payment_verified_at,
    return_reason, return_status, return_requested_at,
    delivered_at, created_at, updated_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order, its items and any seeded timeline entries,
// and decrements stock for every line item, all in one transaction. The
// decrement is conditional on sufficient stock; when it matches no row
// the whole transaction rolls back and an InsufficientStockError names
// the offending product.
func (r *OrderRepository) Create(ctx context.Context, order models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting order transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("rolling back order insert: %v", err)
		}
	}()

	var userID sql.NullString
	if order.UserID != nil {
		userID = sql.NullString{String: *order.UserID, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, order_number, user_id, customer_name, customer_email, customer_phone,
             ship_street, ship_city, ship_region, ship_postal_code,
             payment_method, payment_status, status, subtotal, shipping_cost, discount, total,
             created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		order.ID, order.OrderNumber, userID,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		order.ShippingAddress.Street, order.ShippingAddress.City, order.ShippingAddress.Region, order.ShippingAddress.PostalCode,
		order.PaymentMethod, order.PaymentStatus, order.Status,
		order.Subtotal, order.ShippingCost, order.Discount, order.Total,
		order.CreatedAt, order.UpdatedAt,
	)
	if uniqueViolation(err, "orders_order_number_key") {
		return ErrDuplicateNumber
	}
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2, sales_count = sales_count + $2, updated_at = now()
             WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrementing stock: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrementing stock: %w", err)
		}
		if n == 0 {
			return &InsufficientStockError{ProductID: item.ProductID}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, title, image, price, quantity, variant, subtotal)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.ID, item.ProductID, item.Title, item.Image,
			item.Price, item.Quantity, item.Variant, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	for _, entry := range order.Timeline {
		if err := insertTimelineEntry(ctx, tx, order.ID, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	return r.getOrder(ctx, "id", id)
}

func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (models.Order, error) {
	return r.getOrder(ctx, "order_number", number)
}

// getOrder loads the aggregate in three queries: the order row, its
// items, and its timeline. column is always a literal from this file.
func (r *OrderRepository) getOrder(ctx context.Context, column, value string) (models.Order, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE %s = $1", orderColumns, column), value)
	order, err := scanOrder(row)
	if err != nil {
		return models.Order{}, err
	}

	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return models.Order{}, err
	}
	if order.Timeline, err = r.loadTimeline(ctx, order.ID); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ListByUser returns one page of the user's orders, newest first, plus
// the total count for pagination.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("closing order rows: %v", err)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("listing orders: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}

	var orders []models.Order
	for _, id := range ids {
		order, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, nil
}

// UpdateStatus writes the mutable lifecycle columns from the given
// aggregate and appends one timeline entry in the same transaction.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order models.Order, entry models.TimelineEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting status transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("rolling back status update: %v", err)
		}
	}()

	var (
		courierName  sql.NullString
		courierTrack sql.NullString
		returnStatus sql.NullString
		deliveredAt  sql.NullTime
	)
	if order.Courier != nil {
		courierName = sql.NullString{String: order.Courier.Name, Valid: true}
		courierTrack = sql.NullString{String: order.Courier.TrackingNumber, Valid: true}
	}
	if order.Return != nil {
		returnStatus = sql.NullString{String: string(order.Return.Status), Valid: true}
	}
	if order.DeliveredAt != nil {
		deliveredAt = sql.NullTime{Time: *order.DeliveredAt, Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, payment_status = $3, courier_name = $4, courier_tracking = $5,
             return_status = $6, delivered_at = $7, updated_at = now()
         WHERE id = $1`,
		order.ID, order.Status, order.PaymentStatus,
		courierName, courierTrack, returnStatus, deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := insertTimelineEntry(ctx, tx, order.ID, entry); err != nil {
		return err
	}
	return tx.Commit()
}

// VerifyPayment records the manual payment attestation and marks the
// order paid.
func (r *OrderRepository) VerifyPayment(ctx context.Context, orderID string, v models.PaymentVerification) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, payment_tx_id = $3, payment_sender = $4,
             payment_amount = $5, payment_verified_by = $6, payment_verified_at = $7, updated_at = now()
         WHERE id = $1`,
		orderID, models.PaymentStatusPaid,
		v.TransactionID, v.SenderNumber, v.Amount, v.VerifiedBy, v.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("verifying payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verifying payment: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReturnRequest records the customer's return request and appends the
// matching timeline entry. The order status itself does not change here.
func (r *OrderRepository) SetReturnRequest(ctx context.Context, orderID string, req models.ReturnRequest, entry models.TimelineEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting return transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("rolling back return request: %v", err)
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET return_reason = $2, return_status = $3, return_requested_at = $4, updated_at = now()
         WHERE id = $1`,
		orderID, req.Reason, req.Status, req.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("recording return request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recording return request: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := insertTimelineEntry(ctx, tx, orderID, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTimelineEntry(ctx context.Context, tx *sql.Tx, orderID string, entry models.TimelineEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_timeline (order_id, status, message, actor, created_at)
         VALUES ($1, $2, $3, $4, $5)`,
		orderID, entry.Status, entry.Message, entry.Actor, entry.At,
	)
	if err != nil {
		return fmt.Errorf("inserting timeline entry: %w", err)
	}
	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, title, image, price, quantity, variant, subtotal FROM order_items WHERE order_id = $1 ORDER BY id",
		orderID)
	if err != nil {
		return nil, fmt.Errorf("loading order items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("closing item rows: %v", err)
		}
	}()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Image,
			&item.Price, &item.Quantity, &item.Variant, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading order items: %w", err)
	}
	return items, nil
}

func (r *OrderRepository) loadTimeline(ctx context.Context, orderID string) ([]models.TimelineEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, message, actor, created_at FROM order_timeline WHERE order_id = $1 ORDER BY created_at, id",
		orderID)
	if err != nil {
		return nil, fmt.Errorf("loading timeline: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("closing timeline rows: %v", err)
		}
	}()

	var timeline []models.TimelineEntry
	for rows.Next() {
		var entry models.TimelineEntry
		if err := rows.Scan(&entry.Status, &entry.Message, &entry.Actor, &entry.At); err != nil {
			return nil, fmt.Errorf("scanning timeline entry: %w", err)
		}
		timeline = append(timeline, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading timeline: %w", err)
	}
	return timeline, nil
}

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		order         models.Order
		userID        sql.NullString
		courierName   sql.NullString
		courierTrack  sql.NullString
		payTxID       sql.NullString
		paySender     sql.NullString
		payAmount     decimal.NullDecimal
		payVerifiedBy sql.NullString
		payVerifiedAt sql.NullTime
		returnReason  sql.NullString
		returnStatus  sql.NullString
		returnAt      sql.NullTime
		deliveredAt   sql.NullTime
	)

	err := row.Scan(&order.ID, &order.OrderNumber, &userID,
		&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.ShippingAddress.Street, &order.ShippingAddress.City,
		&order.ShippingAddress.Region, &order.ShippingAddress.PostalCode,
		&order.PaymentMethod, &order.PaymentStatus, &order.Status,
		&order.Subtotal, &order.ShippingCost, &order.Discount, &order.Total,
		&courierName, &courierTrack,
		&payTxID, &paySender, &payAmount, &payVerifiedBy, &payVerifiedAt,
		&returnReason, &returnStatus, &returnAt,
		&deliveredAt, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("scanning order: %w", err)
	}

	if userID.Valid {
		order.UserID = &userID.String
	}
	if courierName.Valid {
		order.Courier = &models.CourierInfo{Name: courierName.String, TrackingNumber: courierTrack.String}
	}
	if payVerifiedAt.Valid {
		order.Payment = &models.PaymentVerification{
			TransactionID: payTxID.String,
			SenderNumber:  paySender.String,
			Amount:        payAmount.Decimal,
			VerifiedBy:    payVerifiedBy.String,
			VerifiedAt:    payVerifiedAt.Time,
		}
	}
	if returnStatus.Valid {
		order.Return = &models.ReturnRequest{
			Reason:      returnReason.String,
			Status:      models.ReturnStatus(returnStatus.String),
			RequestedAt: returnAt.Time,
		}
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	return order, nil
}
