package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts a client-submitted cart into a durable order or rejects
// it as a whole. Prices and stock come from the authoritative product rows,
// never from the client. All writes, including the stock decrements, happen
// in one transaction; the stock check is the conditional decrement itself, so
// a concurrent sale of the last unit fails exactly one of the two orders.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest, user *model.PublicUser) (*model.OrderResponse, error) {
	if verr := s.validateCheckout(req, user); verr != nil {
		return nil, verr
	}

	email := req.Email
	if email == "" {
		email = user.Email
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on any failure, business or otherwise
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	products, err := s.loadProducts(ctx, tx, req.Items)
	if err != nil {
		return nil, err
	}

	// Duplicate product ids are priced as independent lines. The conditional
	// decrement applies them cumulatively, so the stock invariant holds for
	// the sum of a product's lines.
	var (
		orderID = uuid.New()
		items   = make([]model.OrderItem, len(req.Items))
		total   = decimal.Zero
	)
	for i, line := range req.Items {
		product := products[line.ProductID]

		var ok bool
		ok, err = s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if !ok {
			s.logger.Warn().
				Int64("product_id", line.ProductID).
				Int("requested", line.Quantity).
				Int("available", product.Stock).
				Msg("insufficient stock")
			err = model.NewStockError(line.ProductID, product.Stock)
			return nil, err
		}

		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		}
		total = total.Add(items[i].LineTotal())
	}

	order := &model.Order{
		ID:         orderID,
		Email:      email,
		FullName:   req.FullName,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Total:      total,
		CreatedAt:  time.Now(),
	}
	if user != nil {
		id := user.ID
		order.UserID = &id
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int("item_count", len(items)).
		Str("total", total.String()).
		Bool("guest", user == nil).
		Msg("order created successfully")

	return &model.OrderResponse{ID: orderID, Total: total}, nil
}

// ListOrders retrieves the caller's order history, newest first.
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	if orders == nil {
		orders = []model.OrderDetail{}
	}

	return orders, nil
}

// GetOrder retrieves one order. An order owned by a user is only visible to
// that user; the mismatch case reads as not-found so order ids don't leak.
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID, user *model.PublicUser) (*model.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if order.UserID != nil && (user == nil || *order.UserID != user.ID) {
		s.logger.Warn().Str("order_id", id.String()).Msg("order access denied")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// validateCheckout applies the shipping schema variant for the caller: guests
// must supply an email, authenticated callers may omit it.
func (s *orderService) validateCheckout(req *model.OrderRequest, user *model.PublicUser) *model.DomainError {
	if req == nil {
		return model.NewValidationError(map[string]string{"payload": "is required"})
	}

	if verr := validateStruct(req); verr != nil {
		s.logger.Warn().Int("field_errors", len(verr.Fields)).Msg("invalid checkout payload")
		return verr
	}

	if user == nil && req.Email == "" {
		return model.NewValidationError(map[string]string{"email": "is required for guest checkout"})
	}

	return nil
}

// loadProducts batch-fetches the cart's products inside the transaction and
// rejects the order when any id has no catalogue row.
func (s *orderService) loadProducts(ctx context.Context, tx pgx.Tx, items []model.OrderItemRequest) (map[int64]model.Product, error) {
	distinct := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, line := range items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			distinct = append(distinct, line.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDsTx(ctx, tx, distinct)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(distinct)).Msg("failed to load products")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, id := range distinct {
		if _, ok := byID[id]; !ok {
			s.logger.Warn().Int64("product_id", id).Msg("unknown product in cart")
			return nil, model.NewUnknownProductError(id)
		}
	}

	return byID, nil
}
