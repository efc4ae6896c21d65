package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order history requests.
type OrderHandler struct {
	service service.OrderService
	dev     bool
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, dev bool, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		dev:     dev,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests (checkout, guest or authenticated).
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), &req, middleware.UserFrom(r.Context()))
	if err != nil {
		// An unknown product in a cart is a bad submission, not a missing
		// resource: the endpoint itself exists.
		var derr *model.DomainError
		if errors.As(err, &derr) && derr.Code == model.ErrCodeProductNotFound {
			writeDomainError(w, http.StatusBadRequest, derr, h.logger)
			return
		}
		handleServiceError(w, err, "failed to create order", h.dev, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests. Anonymous callers get an empty list.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user := middleware.UserFrom(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, map[string][]model.OrderDetail{"orders": {}})
		return
	}

	orders, err := h.service.ListOrders(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err, "failed to retrieve orders", h.dev, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.OrderDetail{"orders": orders})
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID, middleware.UserFrom(r.Context()))
	if err != nil {
		handleServiceError(w, err, "failed to retrieve order", h.dev, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
