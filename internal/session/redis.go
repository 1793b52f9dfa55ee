package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/valed-dm/ecombot/internal/domain"
)

// DefaultTTL is how long an idle session survives. Expiry is the abandonment
// timeout: the record simply vanishes with no side effects, since no stock is
// held before confirmation.
const DefaultTTL = 30 * time.Minute

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    DefaultTTL,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *RedisStore) Get(ctx context.Context, customerID int64) (*domain.CheckoutSession, error) {
	data, err := r.client.Get(ctx, sessionKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s domain.CheckoutSession
	if err2 := json.Unmarshal(data, &s); err2 != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err2)
	}
	return &s, nil
}

// Put stores the session and refreshes its TTL, so the abandonment clock
// restarts on every interaction.
func (r *RedisStore) Put(ctx context.Context, s *domain.CheckoutSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(s.CustomerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, customerID int64) error {
	if err := r.client.Del(ctx, sessionKey(customerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(customerID int64) string {
	return fmt.Sprintf("checkout:%d", customerID)
}
