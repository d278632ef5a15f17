package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Response, error)
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	SetStock(ctx context.Context, id string, inStock bool) (*Response, error)

	// Snapshot resolves authoritative price and stock for the given products
	// as of call time, inside the caller's transaction. Vanished products
	// are absent from the result.
	Snapshot(ctx context.Context, tx *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]Snapshot, error)
}

type ListRequest struct {
	Category   string
	RegionCode string
	InStock    *bool
}

type CreateRequest struct {
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	PriceCents     int64          `json:"price_cents"`
	Category       string         `json:"category"`
	ProductType    string         `json:"product_type"`
	RoastLevel     *string        `json:"roast_level"`
	WeightOz       int            `json:"weight_oz"`
	BeanType       string         `json:"bean_type"`
	HighlightColor string         `json:"highlight_color"`
	InStock        *bool          `json:"in_stock"`
	RegionCode     string         `json:"region_code"`
	Metadata       map[string]any `json:"metadata"`
}

type Response struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description,omitempty"`
	PriceCents     int64          `json:"price_cents"`
	PriceDisplay   string         `json:"price_display"`
	Category       Category       `json:"category"`
	ProductType    ProductType    `json:"product_type"`
	RoastLevel     *RoastLevel    `json:"roast_level,omitempty"`
	WeightOz       int            `json:"weight_oz"`
	BeanType       string         `json:"bean_type,omitempty"`
	HighlightColor string         `json:"highlight_color,omitempty"`
	InStock        bool           `json:"in_stock"`
	RegionID       string         `json:"region_id"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidProductType = errors.New("invalid_product_type")
	ErrInvalidRoastLevel  = errors.New("invalid_roast_level")
	ErrInvalidRegion      = errors.New("invalid_region")
	ErrSlugTaken          = errors.New("slug_taken")
)
