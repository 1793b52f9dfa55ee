package domain

import (
	"errors"
	"time"
)

type CheckoutStep string

const (
	StepCollectName  CheckoutStep = "COLLECT_NAME"
	StepCollectPhone CheckoutStep = "COLLECT_PHONE"
	StepCollectAddr  CheckoutStep = "COLLECT_ADDRESS"
	StepSelectPickup CheckoutStep = "SELECT_PICKUP"
	StepConfirm      CheckoutStep = "CONFIRM"
	StepConfirmed    CheckoutStep = "CONFIRMED"
	StepCancelled    CheckoutStep = "CANCELLED"
)

func (s CheckoutStep) IsTerminal() bool {
	return s == StepConfirmed || s == StepCancelled
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

// stepTransitions is the legal-move table for the checkout machine. Every
// non-terminal step may also jump to CANCELLED via an explicit cancel.
var stepTransitions = map[CheckoutStep][]CheckoutStep{
	StepCollectName:  {StepCollectPhone},
	StepCollectPhone: {StepCollectAddr, StepSelectPickup, StepConfirm},
	StepCollectAddr:  {StepConfirm},
	StepSelectPickup: {StepConfirm},
	StepConfirm:      {StepConfirmed, StepCollectName},
}

func CanTransitionTo(from, to CheckoutStep) bool {
	if to == StepCancelled {
		return !from.IsTerminal()
	}
	for _, next := range stepTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CheckoutPath string

const (
	PathFast CheckoutPath = "FAST"
	PathSlow CheckoutPath = "SLOW"
)

// Collected holds the fields gathered during checkout. Address and pickup
// point are mutually exclusive; the setters on CheckoutSession enforce that.
type Collected struct {
	Name            string `json:"name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	PickupPointID   int64  `json:"pickup_point_id,omitempty"`
	PickupPointName string `json:"pickup_point_name,omitempty"`
}

var (
	ErrIllegalTransition = errors.New("illegal transition of checkout step")
	errAddressNotAllowed = errors.New("address not collectable in this delivery mode")
	errPickupNotAllowed  = errors.New("pickup point not collectable in this delivery mode")
)

// CheckoutSession is the serializable record for one in-flight checkout.
// It carries everything needed to resume mid-conversation after a restart:
// the resolved mode, the step, collected fields, the frozen cart snapshot
// and the pickup point list as it was at session start.
type CheckoutSession struct {
	ID           string       `json:"id"`
	CustomerID   int64        `json:"customer_id"`
	Path         CheckoutPath `json:"path"`
	Mode         DeliveryMode `json:"mode"`
	Step         CheckoutStep `json:"step"`
	Collected    Collected    `json:"collected"`
	Cart         CartSnapshot `json:"cart"`
	PickupPoints []PickupPoint `json:"pickup_points,omitempty"`
	DeliveryFee  float64      `json:"delivery_fee"`
	OrderID      string       `json:"order_id,omitempty"`
	OrderNumber  string       `json:"order_number,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// AdvanceTo moves the session to the next step, guarded by the transition
// table.
func (s *CheckoutSession) AdvanceTo(step CheckoutStep) error {
	if !CanTransitionTo(s.Step, step) {
		return ErrIllegalTransition
	}
	s.Step = step
	return nil
}

func (s *CheckoutSession) SetAddress(address string) error {
	if s.Mode != DeliveryModeDelivery {
		return errAddressNotAllowed
	}
	s.Collected.Address = address
	return nil
}

func (s *CheckoutSession) SetPickupPoint(pp PickupPoint) error {
	if s.Mode == DeliveryModeDelivery {
		return errPickupNotAllowed
	}
	s.Collected.PickupPointID = pp.ID
	s.Collected.PickupPointName = pp.DisplayName()
	return nil
}

// FindPickupPoint looks up an id in the session's frozen point list.
func (s *CheckoutSession) FindPickupPoint(id int64) (PickupPoint, bool) {
	for _, pp := range s.PickupPoints {
		if pp.ID == id {
			return pp, true
		}
	}
	return PickupPoint{}, false
}

// DestinationChosen reports whether the destination required by the resolved
// mode has been collected.
func (s *CheckoutSession) DestinationChosen() bool {
	switch s.Mode {
	case DeliveryModeDelivery:
		return s.Collected.Address != ""
	default:
		return s.Collected.PickupPointID != 0
	}
}

// ReadyToConfirm reports whether every field the mode requires is present.
func (s *CheckoutSession) ReadyToConfirm() bool {
	return s.Collected.Name != "" && s.Collected.Phone != "" && s.DestinationChosen()
}

// TotalAmount is the cart total plus the delivery fee, when one applies.
func (s *CheckoutSession) TotalAmount() float64 {
	return s.Cart.TotalAmount + s.DeliveryFee
}
