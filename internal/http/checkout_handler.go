package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	d "github.com/valed-dm/ecombot/internal/domain"
	r "github.com/valed-dm/ecombot/internal/repository"
	s "github.com/valed-dm/ecombot/internal/service"
)

type CheckoutHandler struct {
	service s.CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(service s.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		timeout: timeout,
	}
}

type EventRequestDTO struct {
	Type          string `json:"type"`
	Text          string `json:"text,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Action        string `json:"action,omitempty"`
	PickupPointID int64  `json:"pickup_point_id,omitempty"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	ProductID int64  `json:"product_id,omitempty"`
}

// POST /api/v1/checkout/start
func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	customerID := getCustomerIDFromContext(req.Context())
	if customerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	result, err := h.service.StartCheckout(ctx, customerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// POST /api/v1/checkout/event
func (h *CheckoutHandler) HandleEvent(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	customerID := getCustomerIDFromContext(req.Context())
	if customerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var dto EventRequestDTO
	if err := json.NewDecoder(req.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ev := d.Event{
		Type:          d.EventType(dto.Type),
		Text:          dto.Text,
		Phone:         dto.Phone,
		Action:        d.ButtonAction(dto.Action),
		PickupPointID: dto.PickupPointID,
	}

	result, err := h.service.HandleEvent(ctx, customerID, ev)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// POST /api/v1/checkout/cancel
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	customerID := getCustomerIDFromContext(req.Context())
	if customerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.service.Cancel(ctx, customerID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// GET /api/v1/orders/{order_id}
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(req, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.service.GetOrder(ctx, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func getCustomerIDFromContext(ctx context.Context) int64 {
	if customerID, ok := ctx.Value("user_id").(int64); ok {
		return customerID
	}
	return 0
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the checkout error taxonomy to HTTP outcomes.
// Validation problems never reach here; the machine re-prompts internally.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *r.InsufficientStockError

	switch {
	case errors.Is(err, s.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
	case errors.Is(err, d.ErrNoPickupPoints):
		respondError(w, http.StatusConflict, "no_pickup_points", "no active pickup points available")
	case errors.Is(err, s.ErrNoActiveSession):
		respondError(w, http.StatusNotFound, "no_active_session", "no active checkout session")
	case errors.Is(err, r.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:     fmt.Sprintf("insufficient stock for product %d", stockErr.ProductID),
			Code:      "insufficient_stock",
			ProductID: stockErr.ProductID,
		})
	default:
		log.Printf("checkout request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
