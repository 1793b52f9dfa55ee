package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	d "github.com/valed-dm/ecombot/internal/domain"
)

// CreateOrder persists the order, its items and the admin notification outbox
// row, and decrements stock, all inside one transaction. The stock update is
// conditional (stock >= quantity), so the re-check and the decrement are a
// single serialized operation per product; the first line that fails rolls
// the whole transaction back with InsufficientStockError.
func (r *Repository) CreateOrder(ctx context.Context, order *d.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read decrement result: %w", err)
		}
		if affected == 0 {
			return &InsufficientStockError{ProductID: item.ProductID}
		}
	}

	var address sql.NullString
	if order.Address != "" {
		address = sql.NullString{String: order.Address, Valid: true}
	}
	var pickupPointID sql.NullInt64
	if order.PickupPointID != nil {
		pickupPointID = sql.NullInt64{Int64: *order.PickupPointID, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders
		   (id, order_number, customer_id, session_id, contact_name, phone,
		    address, pickup_point_id, delivery_fee, total_amount, currency,
		    status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		order.ID, order.Number, order.CustomerID, order.SessionID,
		order.ContactName, order.Phone, address, pickupPointID,
		order.DeliveryFee, order.TotalAmount, order.Currency,
		string(order.Status), order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.Number,
		"customer_id":  order.CustomerID,
		"contact_name": order.ContactName,
		"items_count":  len(order.Items),
		"total_amount": order.TotalAmount,
		"currency":     order.Currency,
		"placed_at":    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (aggregate_id, event_type, payload, created_at)
		 VALUES ($1, $2, $3, $4)`,
		order.ID, "order.placed", payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID string) (*d.Order, error) {
	return r.getOrder(ctx, `WHERE o.id = $1`, orderID)
}

// GetOrderBySessionID backs the idempotent confirm: orders carry a unique
// session_id, so a duplicate confirm finds the original order here.
func (r *Repository) GetOrderBySessionID(ctx context.Context, sessionID string) (*d.Order, error) {
	return r.getOrder(ctx, `WHERE o.session_id = $1`, sessionID)
}

func (r *Repository) getOrder(ctx context.Context, where string, arg interface{}) (*d.Order, error) {
	order := &d.Order{}
	var address sql.NullString
	var pickupPointID sql.NullInt64
	var status string

	err := r.db.QueryRowContext(ctx,
		`SELECT o.id, o.order_number, o.customer_id, o.session_id,
		        o.contact_name, o.phone, o.address, o.pickup_point_id,
		        o.delivery_fee, o.total_amount, o.currency, o.status, o.created_at
		 FROM orders o `+where, arg).
		Scan(&order.ID, &order.Number, &order.CustomerID, &order.SessionID,
			&order.ContactName, &order.Phone, &address, &pickupPointID,
			&order.DeliveryFee, &order.TotalAmount, &order.Currency,
			&status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order.Address = address.String
	if pickupPointID.Valid {
		order.PickupPointID = &pickupPointID.Int64
	}
	order.Status = d.OrderStatus(status)

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, product_name, quantity, unit_price, subtotal
		 FROM order_items WHERE order_id = $1 ORDER BY product_id`,
		order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item d.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}
