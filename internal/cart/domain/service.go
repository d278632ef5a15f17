package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) (*CartResponse, error)
	Add(ctx context.Context, req AddRequest) (*CartResponse, error)
	UpdateQuantity(ctx context.Context, req UpdateQuantityRequest) (*CartResponse, error)
	Remove(ctx context.Context, productID string) (*CartResponse, error)
	Clear(ctx context.Context) error
}

type AddRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// ItemResponse is a cart row joined with live product data for display.
// Prices here are informational; finalization re-reads them inside its own
// transaction.
type ItemResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	ProductSlug    string `json:"product_slug"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int64  `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
	InStock        bool   `json:"in_stock"`
	Unavailable    bool   `json:"unavailable,omitempty"`
}

type CartResponse struct {
	Items         []ItemResponse `json:"items"`
	TotalItems    int64          `json:"total_items"`
	SubtotalCents int64          `json:"subtotal_cents"`
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrProductNotFound = errors.New("product_not_found")
	ErrItemNotFound    = errors.New("item_not_found")
)
