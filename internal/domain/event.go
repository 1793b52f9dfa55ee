package domain

type EventType string

const (
	EventText    EventType = "text"
	EventContact EventType = "contact"
	EventButton  EventType = "button"
)

type ButtonAction string

const (
	ActionConfirm      ButtonAction = "confirm"
	ActionCancel       ButtonAction = "cancel"
	ActionEditDetails  ButtonAction = "edit_details"
	ActionSelectPickup ButtonAction = "pickup_select"
	// ActionKeep accepts the pre-filled value shown at a collect step, so a
	// fast-path customer editing one field does not re-type the others.
	ActionKeep ButtonAction = "keep"
)

// Event is one inbound user interaction handed to the checkout machine by
// the messaging transport: a typed reply, a shared contact, or a button press.
type Event struct {
	Type          EventType    `json:"type"`
	Text          string       `json:"text,omitempty"`
	Phone         string       `json:"phone,omitempty"`
	Action        ButtonAction `json:"action,omitempty"`
	PickupPointID int64        `json:"pickup_point_id,omitempty"`
}

type Button struct {
	Label         string       `json:"label"`
	Action        ButtonAction `json:"action"`
	PickupPointID int64        `json:"pickup_point_id,omitempty"`
}

// Prompt is what the transport should show the user next.
type Prompt struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}
