package domain

import "errors"

// ErrNoPickupPoints is returned when delivery is unavailable and no active
// pickup point exists, so checkout cannot proceed at all.
var ErrNoPickupPoints = errors.New("no active pickup points available")

// DeliveryMode is resolved once at session start and never changes for the
// lifetime of that session, even if the shop configuration is edited meanwhile.
type DeliveryMode string

const (
	// DeliveryModeDelivery means a free-text shipping address is required.
	DeliveryModeDelivery DeliveryMode = "DELIVERY"
	// DeliveryModePickup means the customer must pick one of several points.
	DeliveryModePickup DeliveryMode = "PICKUP"
	// DeliveryModeNoneRequired means a single pickup point was auto-selected.
	DeliveryModeNoneRequired DeliveryMode = "NONE_REQUIRED"
)

type PickupPoint struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

func (p PickupPoint) DisplayName() string {
	if p.Address == "" {
		return p.Name
	}
	return p.Name + " (" + p.Address + ")"
}

// DeliveryOption is a non-pickup shipping method with an optional
// free-shipping threshold.
type DeliveryOption struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	FreeThreshold *float64 `json:"free_threshold,omitempty"`
	Active        bool     `json:"active"`
}

// DeliveryConfig is a read-only snapshot of the shop's delivery setup,
// fetched once per session start.
type DeliveryConfig struct {
	DeliveryEnabled bool
	Options         []DeliveryOption
	PickupPoints    []PickupPoint
}

func (c *DeliveryConfig) ActivePickupPoints() []PickupPoint {
	active := make([]PickupPoint, 0, len(c.PickupPoints))
	for _, pp := range c.PickupPoints {
		if pp.Active {
			active = append(active, pp)
		}
	}
	return active
}

func (c *DeliveryConfig) hasActiveOption() bool {
	for _, opt := range c.Options {
		if opt.Active {
			return true
		}
	}
	return false
}

// DeliveryFee computes the fee for a delivery order of the given cart total,
// honoring the option's free-shipping threshold. Zero when no option is active.
func (c *DeliveryConfig) DeliveryFee(cartTotal float64) float64 {
	for _, opt := range c.Options {
		if !opt.Active {
			continue
		}
		if opt.FreeThreshold != nil && cartTotal >= *opt.FreeThreshold {
			return 0
		}
		return opt.Price
	}
	return 0
}

// ResolveDeliveryMode maps the configuration to the mode driving the checkout
// flow. When exactly one pickup point is active it is returned pre-selected so
// the machine can skip the selection prompt entirely.
func ResolveDeliveryMode(cfg *DeliveryConfig) (DeliveryMode, *PickupPoint, error) {
	if cfg.DeliveryEnabled && cfg.hasActiveOption() {
		return DeliveryModeDelivery, nil, nil
	}

	points := cfg.ActivePickupPoints()
	switch len(points) {
	case 0:
		return "", nil, ErrNoPickupPoints
	case 1:
		pp := points[0]
		return DeliveryModeNoneRequired, &pp, nil
	default:
		return DeliveryModePickup, nil, nil
	}
}
