package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a placed order. UserID is nil for guest checkouts.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	Email      string          `json:"email" db:"email"`
	FullName   string          `json:"fullName" db:"full_name"`
	Address    string          `json:"address" db:"address"`
	City       string          `json:"city" db:"city"`
	Country    string          `json:"country" db:"country"`
	PostalCode string          `json:"postalCode" db:"postal_code"`
	Total      decimal.Decimal `json:"total" db:"total"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is one line of an order. UnitPrice is the product price captured
// at purchase time and is never recalculated.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// LineTotal returns quantity times the captured unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemRequest is a single cart line in a checkout request.
type OrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// OrderRequest is the checkout payload. Email is required for guest
// checkout; for an authenticated caller it may be omitted and falls back to
// the account email.
type OrderRequest struct {
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	FullName   string             `json:"fullName" validate:"required,min=2"`
	Address    string             `json:"address" validate:"required,min=3"`
	City       string             `json:"city" validate:"required,min=2"`
	Country    string             `json:"country" validate:"required,min=2"`
	PostalCode string             `json:"postalCode" validate:"required,min=3"`
	Email      string             `json:"email,omitempty" validate:"omitempty,email"`
}

// OrderResponse is returned on successful checkout.
type OrderResponse struct {
	ID    uuid.UUID       `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// OrderItemDetail is an order line joined with a product summary for the
// read side.
type OrderItemDetail struct {
	OrderItem
	ProductName     string `json:"productName"`
	ProductImageURL string `json:"productImageUrl"`
}

// OrderDetail is an order with its lines.
type OrderDetail struct {
	Order
	Items []OrderItemDetail `json:"items"`
}
