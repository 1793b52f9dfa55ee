package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is the finalized result of a checkout session. Exactly one of
// Address and PickupPointID is set, depending on the session's delivery mode.
type Order struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	CustomerID    int64       `json:"customer_id"`
	SessionID     string      `json:"session_id"`
	ContactName   string      `json:"contact_name"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address,omitempty"`
	PickupPointID *int64      `json:"pickup_point_id,omitempty"`
	Items         []OrderItem `json:"items"`
	DeliveryFee   float64     `json:"delivery_fee"`
	TotalAmount   float64     `json:"total_amount"`
	Currency      string      `json:"currency"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}
