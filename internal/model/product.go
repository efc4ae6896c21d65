package model

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalogue product.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	CategoryID  int64           `json:"categoryId" db:"category_id"`
}

// Category groups products for filtering.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// ProductQuery holds the list endpoint's pagination and filter parameters.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Offset returns the row offset for the current page.
func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ProductPage is the paginated product listing response.
type ProductPage struct {
	Items      []Product  `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Categories []Category `json:"categories"`
}
