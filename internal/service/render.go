package service

import (
	"fmt"
	"strings"

	d "github.com/valed-dm/ecombot/internal/domain"
)

// User-facing texts. The transport renders them as-is; anything richer than
// plain text plus buttons is the transport's problem.
const (
	msgAskName    = "To complete your order, we need a few details.\n\nLet's start with your full name (as it should appear on the package)."
	msgAskPhone   = "Thank you. Now, please share your phone number."
	msgAskAddress = "Great. Finally, what is the full shipping address?"
	msgAskPickup  = "Please select a pickup point:"

	msgInvalidName    = "Please enter a valid name (cannot be empty)."
	msgInvalidPhone   = "Please enter a valid phone number (cannot be empty)."
	msgInvalidAddress = "Please enter a valid shipping address (cannot be empty)."
	msgUnknownPickup  = "That pickup point is not available. Please select one of the listed points."

	msgCheckoutCancelled = "Checkout cancelled."

	labelConfirm = "Confirm Order"
	labelEdit    = "Edit Details"
	labelCancel  = "Cancel"
	labelKeep    = "Keep"
)

// promptForStep builds the question for a collect step. When the session
// already holds a value for the field (fast-path edit), the prompt shows it
// and offers a Keep button.
func promptForStep(sess *d.CheckoutSession) *d.Prompt {
	switch sess.Step {
	case d.StepCollectName:
		return collectPrompt(msgAskName, sess.Collected.Name)
	case d.StepCollectPhone:
		return collectPrompt(msgAskPhone, sess.Collected.Phone)
	case d.StepCollectAddr:
		return collectPrompt(msgAskAddress, sess.Collected.Address)
	case d.StepSelectPickup:
		return pickupPrompt(sess)
	case d.StepConfirm:
		return Render(sess)
	default:
		return &d.Prompt{Text: msgCheckoutCancelled}
	}
}

func collectPrompt(question, current string) *d.Prompt {
	p := &d.Prompt{Text: question}
	if current != "" {
		p.Text = fmt.Sprintf("%s\n\nCurrent value: %s", question, current)
		p.Buttons = []d.Button{{Label: labelKeep, Action: d.ActionKeep}}
	}
	return p
}

func pickupPrompt(sess *d.CheckoutSession) *d.Prompt {
	p := &d.Prompt{Text: msgAskPickup}
	for _, pp := range sess.PickupPoints {
		p.Buttons = append(p.Buttons, d.Button{
			Label:         pp.DisplayName(),
			Action:        d.ActionSelectPickup,
			PickupPointID: pp.ID,
		})
	}
	return p
}

// Render maps a session at the confirmation step to its summary and the
// buttons available there. It is a pure function of the session.
func Render(sess *d.CheckoutSession) *d.Prompt {
	var b strings.Builder

	b.WriteString("Ready to place your order?\n\n")
	fmt.Fprintf(&b, "Name: %s\n", sess.Collected.Name)
	fmt.Fprintf(&b, "Phone: %s\n", sess.Collected.Phone)
	if sess.Mode == d.DeliveryModeDelivery {
		fmt.Fprintf(&b, "Delivery to: %s\n", sess.Collected.Address)
	} else {
		fmt.Fprintf(&b, "Pickup at: %s\n", sess.Collected.PickupPointName)
	}

	b.WriteString("\n")
	for _, item := range sess.Cart.Items {
		fmt.Fprintf(&b, "%s x%d — $%.2f\n", item.ProductName, item.Quantity, item.Subtotal)
	}
	if sess.DeliveryFee > 0 {
		fmt.Fprintf(&b, "Delivery fee: $%.2f\n", sess.DeliveryFee)
	}
	fmt.Fprintf(&b, "\nTotal Price: $%.2f", sess.TotalAmount())

	buttons := []d.Button{{Label: labelConfirm, Action: d.ActionConfirm}}
	if sess.Path == d.PathFast {
		// Slow-path data was just typed in; only a fast-path summary offers
		// an edit round.
		buttons = append(buttons, d.Button{Label: labelEdit, Action: d.ActionEditDetails})
	}
	buttons = append(buttons, d.Button{Label: labelCancel, Action: d.ActionCancel})

	return &d.Prompt{Text: b.String(), Buttons: buttons}
}

func invalidInputPrompt(sess *d.CheckoutSession, errText string) *d.Prompt {
	p := promptForStep(sess)
	p.Text = errText + "\n\n" + p.Text
	return p
}
