package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// AuthService defines registration, login and session lifecycle operations.
type AuthService interface {
	// Register creates a new user and an initial session. Returns
	// model.ErrEmailTaken when the email is already registered.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.PublicUser, *model.Session, error)

	// Login authenticates a user and creates a session. Returns
	// model.ErrInvalidCredentials on unknown email or wrong password.
	Login(ctx context.Context, req *model.LoginRequest) (*model.PublicUser, *model.Session, error)

	// ResolveSession maps a bearer token to its user's public fields.
	// Missing, unknown and expired tokens all resolve to (nil, nil); an
	// expired session row is deleted as a side effect.
	ResolveSession(ctx context.Context, token string) (*model.PublicUser, error)

	// RevokeSession deletes a session. Revoking an unknown token is a no-op.
	RevokeSession(ctx context.Context, token string) error
}

// ProductService defines operations for catalogue browsing.
type ProductService interface {
	// List retrieves a page of products with filters applied, plus the
	// category index for the storefront sidebar.
	List(ctx context.Context, query model.ProductQuery) (*model.ProductPage, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// OrderService defines checkout and order read operations.
type OrderService interface {
	// PlaceOrder re-prices the submitted cart against live product data,
	// validates stock and atomically persists the order. user is nil for
	// guest checkout.
	PlaceOrder(ctx context.Context, req *model.OrderRequest, user *model.PublicUser) (*model.OrderResponse, error)

	// ListOrders retrieves the caller's order history, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error)

	// GetOrder retrieves one order. Orders owned by a user are only visible
	// to that user; guest orders are retrievable by id.
	GetOrder(ctx context.Context, id uuid.UUID, user *model.PublicUser) (*model.OrderDetail, error)
}
