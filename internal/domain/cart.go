package domain

import "time"

// Cart is the raw cart document owned by the cart subsystem. The checkout
// core only ever reads it.
type Cart struct {
	ID        string     `bson:"_id,omitempty"`
	UserID    int64      `bson:"user_id"`
	Items     []CartItem `bson:"items"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

type CartItem struct {
	ProductID int64 `bson:"product_id"`
	Quantity  int32 `bson:"quantity"`
}

// Product carries the catalog data checkout needs: display name, current
// price and remaining stock.
type Product struct {
	ID    int64
	Name  string
	Price float64
	Stock int32
}

type CartSnapshotItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// CartSnapshot freezes the cart contents and prices at session start. Stock
// is deliberately not frozen: it is re-checked at finalization because time
// passes while the conversation runs.
type CartSnapshot struct {
	Items       []CartSnapshotItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Currency    string             `json:"currency"`
	CapturedAt  time.Time          `json:"captured_at"`
}
