package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	d "github.com/valed-dm/ecombot/internal/domain"
	"github.com/valed-dm/ecombot/internal/session"
)

// HandleEvent dispatches one user interaction into the customer's open
// session. Malformed input never escapes as an error: the machine re-prompts
// without advancing.
func (s *CheckoutServiceImpl) HandleEvent(ctx context.Context, customerID int64, ev d.Event) (*Result, error) {
	sess, err := s.sessions.Get(ctx, customerID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	// Cancel is honored at every step. The cart stays untouched.
	if ev.Type == d.EventButton && ev.Action == d.ActionCancel && !sess.Step.IsTerminal() {
		if err := s.sessions.Delete(ctx, customerID); err != nil {
			return nil, fmt.Errorf("failed to drop session: %w", err)
		}
		log.Printf("checkout cancelled: customer=%d session=%s step=%s", customerID, sess.ID, sess.Step)
		return &Result{Prompt: &d.Prompt{Text: msgCheckoutCancelled}}, nil
	}

	switch sess.Step {
	case d.StepCollectName:
		return s.collectName(ctx, sess, ev)
	case d.StepCollectPhone:
		return s.collectPhone(ctx, sess, ev)
	case d.StepCollectAddr:
		return s.collectAddress(ctx, sess, ev)
	case d.StepSelectPickup:
		return s.selectPickup(ctx, sess, ev)
	case d.StepConfirm:
		return s.handleConfirmAction(ctx, sess, ev)
	case d.StepConfirmed:
		return s.repeatConfirmation(ctx, sess, ev)
	default:
		return nil, ErrNoActiveSession
	}
}

func (s *CheckoutServiceImpl) Cancel(ctx context.Context, customerID int64) error {
	return s.sessions.Delete(ctx, customerID)
}

func (s *CheckoutServiceImpl) GetOrder(ctx context.Context, orderID string) (*d.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// collectedText extracts the textual answer for a collect step: typed text,
// or the current value when the Keep button was pressed.
func collectedText(sess *d.CheckoutSession, ev d.Event, current string) (string, bool) {
	if ev.Type == d.EventButton && ev.Action == d.ActionKeep {
		return current, current != ""
	}
	if ev.Type == d.EventText {
		return ev.Text, true
	}
	return "", false
}

func (s *CheckoutServiceImpl) collectName(ctx context.Context, sess *d.CheckoutSession, ev d.Event) (*Result, error) {
	raw, ok := collectedText(sess, ev, sess.Collected.Name)
	name, valid := validName(raw)
	if !ok || !valid {
		return &Result{Prompt: invalidInputPrompt(sess, msgInvalidName)}, nil
	}

	sess.Collected.Name = name
	if err := sess.AdvanceTo(d.StepCollectPhone); err != nil {
		return nil, err
	}
	return s.saveAndPrompt(ctx, sess)
}

func (s *CheckoutServiceImpl) collectPhone(ctx context.Context, sess *d.CheckoutSession, ev d.Event) (*Result, error) {
	raw, ok := collectedText(sess, ev, sess.Collected.Phone)
	if ev.Type == d.EventContact {
		// Shared-contact payloads carry the number directly.
		raw, ok = ev.Phone, true
	}
	phone, valid := validPhone(raw)
	if !ok || !valid {
		return &Result{Prompt: invalidInputPrompt(sess, msgInvalidPhone)}, nil
	}

	sess.Collected.Phone = phone

	next := d.StepConfirm
	switch sess.Mode {
	case d.DeliveryModeDelivery:
		next = d.StepCollectAddr
	case d.DeliveryModePickup:
		next = d.StepSelectPickup
	}
	if err := sess.AdvanceTo(next); err != nil {
		return nil, err
	}
	return s.saveAndPrompt(ctx, sess)
}

func (s *CheckoutServiceImpl) collectAddress(ctx context.Context, sess *d.CheckoutSession, ev d.Event) (*Result, error) {
	raw, ok := collectedText(sess, ev, sess.Collected.Address)
	address, valid := validAddress(raw)
	if !ok || !valid {
		return &Result{Prompt: invalidInputPrompt(sess, msgInvalidAddress)}, nil
	}

	if err := sess.SetAddress(address); err != nil {
		return nil, err
	}
	if err := sess.AdvanceTo(d.StepConfirm); err != nil {
		return nil, err
	}
	return s.saveAndPrompt(ctx, sess)
}

func (s *CheckoutServiceImpl) selectPickup(ctx context.Context, sess *d.CheckoutSession, ev d.Event) (*Result, error) {
	if ev.Type != d.EventButton || ev.Action != d.ActionSelectPickup {
		return &Result{Prompt: invalidInputPrompt(sess, msgUnknownPickup)}, nil
	}

	// Only points frozen into the session at start are selectable; points
	// added by an admin mid-conversation are invisible here.
	pp, found := sess.FindPickupPoint(ev.PickupPointID)
	if !found {
		return &Result{Prompt: invalidInputPrompt(sess, msgUnknownPickup)}, nil
	}

	if err := sess.SetPickupPoint(pp); err != nil {
		return nil, err
	}
	if err := sess.AdvanceTo(d.StepConfirm); err != nil {
		return nil, err
	}
	return s.saveAndPrompt(ctx, sess)
}

func (s *CheckoutServiceImpl) handleConfirmAction(ctx context.Context, sess *d.CheckoutSession, ev d.Event) (*Result, error) {
	if ev.Type != d.EventButton {
		return &Result{Prompt: Render(sess)}, nil
	}

	switch ev.Action {
	case d.ActionConfirm:
		return s.finalize(ctx, sess)
	case d.ActionEditDetails:
		if sess.Path != d.PathFast {
			return &Result{Prompt: Render(sess)}, nil
		}
		// Re-enter the slow path at the name step with everything pre-filled;
		// the Keep button lets the customer skip fields that are fine.
		sess.Path = d.PathSlow
		if err := sess.AdvanceTo(d.StepCollectName); err != nil {
			return nil, err
		}
		return s.saveAndPrompt(ctx, sess)
	default:
		return &Result{Prompt: Render(sess)}, nil
	}
}

// repeatConfirmation makes a duplicate Confirm on a completed session a
// no-op that returns the original order, not a new one.
func (s *CheckoutServiceImpl) repeatConfirmation(ctx context.Context, sess *d.CheckoutSession, _ d.Event) (*Result, error) {
	order, err := s.repo.GetOrder(ctx, sess.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed order: %w", err)
	}
	return &Result{Order: order}, nil
}

func (s *CheckoutServiceImpl) saveAndPrompt(ctx context.Context, sess *d.CheckoutSession) (*Result, error) {
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &Result{Prompt: promptForStep(sess)}, nil
}
