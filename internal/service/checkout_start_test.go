package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	d "github.com/valed-dm/ecombot/internal/domain"
)

func TestStartCheckout_FastPathDelivery(t *testing.T) {
	repo := &MockRepository{
		Products: testProducts(),
		Config:   deliveryConfig(),
		Profile: &d.Profile{
			CustomerID: 1,
			Name:       "Alice",
			Phone:      "+15550001",
			Address:    "1 Main St",
		},
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	result, err := svc.StartCheckout(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, result.Prompt)

	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, d.PathFast, sess.Path)
	assert.Equal(t, d.DeliveryModeDelivery, sess.Mode)
	assert.Equal(t, d.StepConfirm, sess.Step)
	assert.Equal(t, "Alice", sess.Collected.Name)
	assert.Equal(t, "1 Main St", sess.Collected.Address)
	assert.Equal(t, 5.00, sess.DeliveryFee)
	// 2x10.00 + 1x7.50 + 5.00 fee
	assert.Equal(t, 32.50, sess.TotalAmount())

	// Fast path lands straight on the summary with an edit round available.
	labels := buttonLabels(result.Prompt)
	assert.Contains(t, labels, labelConfirm)
	assert.Contains(t, labels, labelEdit)
	assert.Contains(t, labels, labelCancel)
}

func TestStartCheckout_SlowPathNoProfile(t *testing.T) {
	repo := &MockRepository{
		Products: testProducts(),
		Config:   deliveryConfig(),
		Profile:  nil, // first-time customer
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	result, err := svc.StartCheckout(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, result.Prompt)
	assert.Equal(t, msgAskName, result.Prompt.Text)
	assert.Empty(t, result.Prompt.Buttons)

	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, d.PathSlow, sess.Path)
	assert.Equal(t, d.StepCollectName, sess.Step)
}

func TestStartCheckout_SlowPathPartialProfile(t *testing.T) {
	// Name and phone on file but no address: delivery mode forces slow path
	// starting at the address step.
	repo := &MockRepository{
		Products: testProducts(),
		Config:   deliveryConfig(),
		Profile:  &d.Profile{CustomerID: 1, Name: "Alice", Phone: "+15550001"},
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	_, err := svc.StartCheckout(context.Background(), 1)
	require.NoError(t, err)

	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, d.PathSlow, sess.Path)
	assert.Equal(t, d.StepCollectAddr, sess.Step)
}

func TestStartCheckout_EmptyCart(t *testing.T) {
	repo := &MockRepository{Config: deliveryConfig()}
	svc, store := newTestCheckoutService(repo, &MockCartReader{
		Cart: &d.Cart{UserID: 1, Items: []d.CartItem{}},
	})

	result, err := svc.StartCheckout(context.Background(), 1)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)

	// No session is left behind.
	_, err = store.Get(context.Background(), 1)
	assert.Error(t, err)
}

func TestStartCheckout_NoPickupPointsAvailable(t *testing.T) {
	repo := &MockRepository{
		Products: testProducts(),
		Config: pickupConfig(
			d.PickupPoint{ID: 1, Name: "Closed Point", Active: false},
		),
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	result, err := svc.StartCheckout(context.Background(), 1)

	assert.ErrorIs(t, err, d.ErrNoPickupPoints)
	assert.Nil(t, result)

	_, err = store.Get(context.Background(), 1)
	assert.Error(t, err)
}

func TestStartCheckout_SinglePickupPointAutoSelected(t *testing.T) {
	repo := &MockRepository{
		Products: testProducts(),
		Config: pickupConfig(
			d.PickupPoint{ID: 7, Name: "Main Store", Address: "5 Oak Ave", Active: true},
		),
		Profile: &d.Profile{CustomerID: 1, Name: "Alice", Phone: "+15550001"},
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	result, err := svc.StartCheckout(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, result.Prompt)

	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, d.DeliveryModeNoneRequired, sess.Mode)
	assert.Equal(t, d.StepConfirm, sess.Step)
	assert.Equal(t, int64(7), sess.Collected.PickupPointID)
	assert.Equal(t, "Main Store (5 Oak Ave)", sess.Collected.PickupPointName)
	// No delivery fee for pickup.
	assert.Equal(t, 0.0, sess.DeliveryFee)

	// The selection prompt is never shown.
	assert.NotEqual(t, msgAskPickup, result.Prompt.Text)
}

func TestStartCheckout_MultiplePickupPointsNeedSelection(t *testing.T) {
	repo := &MockRepository{
		Products: testProducts(),
		Config: pickupConfig(
			d.PickupPoint{ID: 1, Name: "North", Active: true},
			d.PickupPoint{ID: 2, Name: "South", Active: true},
			d.PickupPoint{ID: 3, Name: "Closed", Active: false},
		),
		Profile: &d.Profile{CustomerID: 1, Name: "Alice", Phone: "+15550001"},
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	result, err := svc.StartCheckout(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, msgAskPickup, result.Prompt.Text)
	// Only active points are offered.
	assert.Len(t, result.Prompt.Buttons, 2)

	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, d.DeliveryModePickup, sess.Mode)
	assert.Equal(t, d.StepSelectPickup, sess.Step)
	assert.Len(t, sess.PickupPoints, 2)
}

func TestStartCheckout_FreeDeliveryAboveThreshold(t *testing.T) {
	threshold := 25.0
	repo := &MockRepository{
		Products: testProducts(),
		Config: &d.DeliveryConfig{
			DeliveryEnabled: true,
			Options: []d.DeliveryOption{
				{ID: 1, Name: "Courier", Price: 5.00, FreeThreshold: &threshold, Active: true},
			},
		},
		Profile: &d.Profile{CustomerID: 1, Name: "Alice", Phone: "+15550001", Address: "1 Main St"},
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	_, err := svc.StartCheckout(context.Background(), 1)
	require.NoError(t, err)

	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	// Cart total 27.50 clears the 25.00 threshold.
	assert.Equal(t, 0.0, sess.DeliveryFee)
	assert.Equal(t, 27.50, sess.TotalAmount())
}

func TestStartCheckout_ReplacesExistingSession(t *testing.T) {
	repo := &MockRepository{
		Products: testProducts(),
		Config:   deliveryConfig(),
		Profile:  nil,
	}
	svc, store := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	_, err := svc.StartCheckout(context.Background(), 1)
	require.NoError(t, err)
	first, err := store.Get(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.StartCheckout(context.Background(), 1)
	require.NoError(t, err)
	second, err := store.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestStartCheckout_DeliveryConfigError(t *testing.T) {
	repo := &MockRepository{
		Products:  testProducts(),
		ConfigErr: errors.New("db down"),
	}
	svc, _ := newTestCheckoutService(repo, &MockCartReader{Cart: testCart(1)})

	result, err := svc.StartCheckout(context.Background(), 1)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to get delivery config")
}

func buttonLabels(p *d.Prompt) []string {
	labels := make([]string, 0, len(p.Buttons))
	for _, b := range p.Buttons {
		labels = append(labels, b.Label)
	}
	return labels
}
