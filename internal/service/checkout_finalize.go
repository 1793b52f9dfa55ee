package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"

	d "github.com/valed-dm/ecombot/internal/domain"
	r "github.com/valed-dm/ecombot/internal/repository"
)

// finalize turns a confirmed session into an order. The stock re-check, the
// order insert and the notification outbox row are one transaction inside
// the repository; everything after the commit (profile update, cart clear)
// is best-effort and never fails the order.
//
// On InsufficientStockError or a persistence failure the session is left in
// the confirmation step so the customer can adjust the cart and retry.
func (s *CheckoutServiceImpl) finalize(ctx context.Context, sess *d.CheckoutSession) (*Result, error) {
	if !d.CanTransitionTo(sess.Step, d.StepConfirmed) {
		return nil, d.ErrIllegalTransition
	}
	if !sess.ReadyToConfirm() {
		return nil, fmt.Errorf("session %s is missing required fields", sess.ID)
	}

	// Backstop for replayed confirms: the session id is unique per order.
	if existing, err := s.repo.GetOrderBySessionID(ctx, sess.ID); err == nil {
		return s.completeSession(ctx, sess, existing), nil
	} else if !errors.Is(err, r.ErrOrderNotFound) {
		return nil, fmt.Errorf("failed to check for existing order: %w", err)
	}

	order := s.orderFromSession(sess)
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		var stockErr *r.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, stockErr
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err := s.repo.UpdateProfile(ctx, sess.CustomerID, sess.Collected.Phone, deliveryAddress(sess)); err != nil {
		log.Printf("failed to update profile for customer %d after order %s: %v",
			sess.CustomerID, order.ID, err)
	}

	if err := s.cart.ClearCart(ctx, sess.CustomerID); err != nil {
		log.Printf("failed to clear cart for customer %d after order %s: %v",
			sess.CustomerID, order.ID, err)
	}

	log.Printf("order placed: customer=%d order=%s number=%s total=%.2f",
		sess.CustomerID, order.ID, order.Number, order.TotalAmount)

	return s.completeSession(ctx, sess, order), nil
}

// completeSession marks the session confirmed and keeps it around briefly so
// a duplicate Confirm press resolves to the same order.
func (s *CheckoutServiceImpl) completeSession(ctx context.Context, sess *d.CheckoutSession, order *d.Order) *Result {
	sess.Step = d.StepConfirmed
	sess.OrderID = order.ID
	sess.OrderNumber = order.Number
	if err := s.sessions.Put(ctx, sess); err != nil {
		// The order exists; the session-id backstop covers replays.
		log.Printf("failed to store confirmed session %s: %v", sess.ID, err)
	}
	return &Result{Order: order}
}

func (s *CheckoutServiceImpl) orderFromSession(sess *d.CheckoutSession) *d.Order {
	order := &d.Order{
		ID:          uuid.NewString(),
		Number:      generateOrderNumber(),
		CustomerID:  sess.CustomerID,
		SessionID:   sess.ID,
		ContactName: sess.Collected.Name,
		Phone:       sess.Collected.Phone,
		DeliveryFee: sess.DeliveryFee,
		TotalAmount: sess.TotalAmount(),
		Currency:    sess.Cart.Currency,
		Status:      d.OrderStatusPending,
		CreatedAt:   time.Now(),
	}

	if sess.Mode == d.DeliveryModeDelivery {
		order.Address = sess.Collected.Address
	} else {
		id := sess.Collected.PickupPointID
		order.PickupPointID = &id
	}

	order.Items = make([]d.OrderItem, 0, len(sess.Cart.Items))
	for _, item := range sess.Cart.Items {
		order.Items = append(order.Items, d.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return order
}

// deliveryAddress is the address to persist on the profile; pickup orders
// contribute none.
func deliveryAddress(sess *d.CheckoutSession) string {
	if sess.Mode == d.DeliveryModeDelivery {
		return sess.Collected.Address
	}
	return ""
}

const orderNumberChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateOrderNumber produces a short human-readable reference:
// day-of-year, time, four random characters.
func generateOrderNumber() string {
	now := time.Now()
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberChars))))
		if err != nil {
			// crypto/rand failing is effectively fatal elsewhere; fall back
			// to a time-derived character rather than panicking here.
			suffix[i] = orderNumberChars[now.UnixNano()%int64(len(orderNumberChars))]
			continue
		}
		suffix[i] = orderNumberChars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", now.Format("002"), now.Format("150405"), suffix)
}
