package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valed-dm/ecombot/internal/cart"
	d "github.com/valed-dm/ecombot/internal/domain"
)

// buildCartSnapshot reads the customer's cart and freezes current names and
// prices into a snapshot. An absent or empty cart is ErrEmptyCart.
func (s *CheckoutServiceImpl) buildCartSnapshot(ctx context.Context, customerID int64) (*d.CartSnapshot, error) {
	c, err := s.cart.GetCart(ctx, customerID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.repo.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	snapshot := &d.CartSnapshot{
		Items:      make([]d.CartSnapshotItem, 0, len(c.Items)),
		Currency:   "USD",
		CapturedAt: time.Now(),
	}

	var totalAmount float64
	for _, item := range c.Items {
		product, exists := products[item.ProductID]
		if !exists {
			return nil, fmt.Errorf("product %d not found during checkout", item.ProductID)
		}

		subtotal := product.Price * float64(item.Quantity)
		snapshot.Items = append(snapshot.Items, d.CartSnapshotItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
		totalAmount += subtotal
	}

	snapshot.TotalAmount = totalAmount
	return snapshot, nil
}
