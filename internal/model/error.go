package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeInvalidCredential = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is an expected business-rule failure carried as a value to the
// HTTP boundary.
type DomainError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying per-field messages.
func NewValidationError(fields map[string]string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: "invalid request payload",
		Fields:  fields,
	}
}

// NewStockError creates an insufficient-stock error naming the product and
// the quantity still available.
func NewStockError(productID int64, available int) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %d (available: %d)", productID, available),
	}
}

// NewUnknownProductError names a product id with no catalogue row.
func NewUnknownProductError(productID int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeProductNotFound,
		Message: fmt.Sprintf("product %d not found", productID),
	}
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "one or more products not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "order not found")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "email already registered")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredential, "invalid email or password")
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "authentication required")
)
