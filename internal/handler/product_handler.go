package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalogue browsing requests.
type ProductHandler struct {
	service service.ProductService
	dev     bool
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, dev bool, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		dev:     dev,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with pagination and filters.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	q := r.URL.Query()
	query := model.ProductQuery{
		Page:     parseIntParam(q.Get("page"), 1),
		PageSize: parseIntParam(q.Get("pageSize"), 0),
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}

	var ok bool
	if query.MinPrice, ok = parsePriceParam(q.Get("minPrice")); !ok {
		writeError(w, http.StatusBadRequest, "invalid minPrice", h.logger)
		return
	}
	if query.MaxPrice, ok = parsePriceParam(q.Get("maxPrice")); !ok {
		writeError(w, http.StatusBadRequest, "invalid maxPrice", h.logger)
		return
	}

	page, err := h.service.List(r.Context(), query)
	if err != nil {
		handleServiceError(w, err, "failed to retrieve products", h.dev, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "failed to retrieve product", h.dev, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, err, "failed to retrieve categories", h.dev, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Category{"categories": categories})
}

// parseIntParam parses a positive integer query parameter, falling back to a
// default on anything unparseable.
func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parsePriceParam parses an optional decimal query parameter. The second
// return is false when a value was supplied but malformed.
func parsePriceParam(value string) (*decimal.Decimal, bool) {
	if value == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return nil, false
	}
	return &d, true
}
