package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	d "github.com/valed-dm/ecombot/internal/domain"
	r "github.com/valed-dm/ecombot/internal/repository"
)

// StartCheckout opens a session for the customer. Any session already open
// for the same customer is replaced, so a customer has at most one at a time.
//
// The delivery mode and the pickup point list are resolved here, once, and
// frozen into the session record: configuration edits made while the
// conversation runs never affect an open session.
func (s *CheckoutServiceImpl) StartCheckout(ctx context.Context, customerID int64) (*Result, error) {
	snapshot, err := s.buildCartSnapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.repo.GetDeliveryConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery config: %w", err)
	}

	mode, preselected, err := d.ResolveDeliveryMode(cfg)
	if err != nil {
		// No session is created: the error surfaces before any prompt.
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, customerID)
	if errors.Is(err, r.ErrProfileNotFound) {
		profile = &d.Profile{CustomerID: customerID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	sess := &d.CheckoutSession{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Mode:       mode,
		Cart:       *snapshot,
		CreatedAt:  time.Now(),
	}

	sess.Collected.Name = profile.Name
	sess.Collected.Phone = profile.Phone

	switch mode {
	case d.DeliveryModeDelivery:
		sess.Collected.Address = profile.Address
		sess.DeliveryFee = cfg.DeliveryFee(snapshot.TotalAmount)
	case d.DeliveryModePickup:
		sess.PickupPoints = cfg.ActivePickupPoints()
	case d.DeliveryModeNoneRequired:
		if err := sess.SetPickupPoint(*preselected); err != nil {
			return nil, err
		}
	}

	// Fast path needs name and phone on file, plus the address when the mode
	// is delivery. A multi-point pickup still requires an explicit choice.
	fast := profile.Name != "" && profile.Phone != "" &&
		(mode != d.DeliveryModeDelivery || profile.Address != "")

	if fast {
		sess.Path = d.PathFast
		if mode == d.DeliveryModePickup {
			sess.Step = d.StepSelectPickup
		} else {
			sess.Step = d.StepConfirm
		}
	} else {
		sess.Path = d.PathSlow
		sess.Step = firstMissingStep(sess)
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("checkout started: customer=%d session=%s mode=%s path=%s step=%s",
		customerID, sess.ID, sess.Mode, sess.Path, sess.Step)

	return &Result{Prompt: promptForStep(sess)}, nil
}

// firstMissingStep picks where the slow path begins: the first field still
// missing, in the fixed order name, phone, destination.
func firstMissingStep(sess *d.CheckoutSession) d.CheckoutStep {
	switch {
	case sess.Collected.Name == "":
		return d.StepCollectName
	case sess.Collected.Phone == "":
		return d.StepCollectPhone
	case sess.Mode == d.DeliveryModeDelivery:
		return d.StepCollectAddr
	default:
		return d.StepSelectPickup
	}
}
