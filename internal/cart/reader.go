package cart

import (
	"context"
	"errors"

	"github.com/valed-dm/ecombot/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Reader is the narrow view of the cart subsystem the checkout core consumes:
// it reads the current cart and clears it once an order is placed. All cart
// mutation beyond that belongs to the cart subsystem itself.
type Reader interface {
	GetCart(ctx context.Context, customerID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, customerID int64) error
}
