package service

import (
	"context"

	"github.com/valed-dm/ecombot/internal/cart"
	d "github.com/valed-dm/ecombot/internal/domain"
	r "github.com/valed-dm/ecombot/internal/repository"
	"github.com/valed-dm/ecombot/internal/session"
)

// Result is what the machine hands back to the transport: either the next
// prompt to show, or the finalized order.
type Result struct {
	Prompt *d.Prompt `json:"prompt,omitempty"`
	Order  *d.Order  `json:"order,omitempty"`
}

type CheckoutService interface {
	// StartCheckout opens (or replaces) a session for the customer and
	// returns the first prompt: either the confirmation summary (fast path)
	// or the first missing-field question (slow path).
	StartCheckout(ctx context.Context, customerID int64) (*Result, error)

	// HandleEvent feeds one user interaction into the customer's open
	// session and returns the next prompt or the finalized order.
	HandleEvent(ctx context.Context, customerID int64, ev d.Event) (*Result, error)

	// Cancel abandons the customer's open session, if any. The cart is left
	// untouched.
	Cancel(ctx context.Context, customerID int64) error

	// GetOrder fetches an order for the order-details view.
	GetOrder(ctx context.Context, orderID string) (*d.Order, error)
}

type CheckoutServiceImpl struct {
	repo     r.RepoInterface
	sessions session.Store
	cart     cart.Reader
}

func NewCheckoutService(repo r.RepoInterface, sessions session.Store, cartReader cart.Reader) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		repo:     repo,
		sessions: sessions,
		cart:     cartReader,
	}
}
