package domain

import (
	"context"
	"time"

	"github.com/anoralabs/storefront/pkg/db/pagination"
)

type Service interface {
	// Finalize atomically converts the caller's cart into an immutable
	// priced order. The idempotency key collapses duplicate submissions.
	Finalize(ctx context.Context, req FinalizeRequest) (*Response, error)

	// TransitionStatus applies a validated status change; status and
	// updated_at are the only mutable order fields.
	TransitionStatus(ctx context.Context, id string, status string) (*Response, error)

	List(ctx context.Context, page pagination.Pagination) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type FinalizeRequest struct {
	IdempotencyKey  string          `json:"-"`
	RegionCode      string          `json:"region_code"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

type ItemResponse struct {
	ProductID      string `json:"product_id,omitempty"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int64  `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type ListResponse struct {
	Orders   []Response           `json:"orders"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type Response struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	Status          Status          `json:"status"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Items           []ItemResponse  `json:"items"`
	SubtotalCents   int64           `json:"subtotal_cents"`
	ShippingCents   int64           `json:"shipping_cents"`
	TotalCents      int64           `json:"total_cents"`
	TotalDisplay    string          `json:"total_display"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
