package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// SessionRepository defines the interface for session data access operations.
type SessionRepository interface {
	// Create inserts a new session row.
	Create(ctx context.Context, session *model.Session) error

	// GetWithUser retrieves a session and its owning user by token.
	// Returns (nil, nil, nil) when no session matches.
	GetWithUser(ctx context.Context, token string) (*model.Session, *model.User, error)

	// Delete removes a session by token. Missing rows are a no-op.
	Delete(ctx context.Context, token string) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves a page of products matching the query, together with
	// the total match count.
	List(ctx context.Context, query model.ProductQuery) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDsTx retrieves multiple products by their IDs within the
	// provided transaction.
	GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error)

	// DecrementStock atomically decrements a product's stock within the
	// provided transaction. Returns false when the product has fewer than
	// quantity units left; stock is not modified in that case.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns nil
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)

	// ListByUser retrieves a user's orders, newest first, with their items.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error)
}
