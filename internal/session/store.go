package session

import (
	"context"
	"errors"

	"github.com/valed-dm/ecombot/internal/domain"
)

// Store persists in-flight checkout sessions as serializable records keyed by
// customer identity, so a process restart mid-conversation resumes at the
// exact step with all collected fields intact.
type Store interface {
	Get(ctx context.Context, customerID int64) (*domain.CheckoutSession, error)
	Put(ctx context.Context, s *domain.CheckoutSession) error
	Delete(ctx context.Context, customerID int64) error
}

var ErrSessionNotFound = errors.New("checkout session not found")
