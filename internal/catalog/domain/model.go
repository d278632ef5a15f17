// Package domain contains persistence models for the product catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Category groups products on the storefront.
type Category string

const (
	CategoryFeatured  Category = "featured"
	CategoryOriginals Category = "originals"
)

// ProductType distinguishes recurring deliveries from one-off purchases.
type ProductType string

const (
	ProductTypeSubscription ProductType = "subscription"
	ProductTypeOneTime      ProductType = "one_time"
)

// RoastLevel describes the roast of a coffee product.
type RoastLevel string

const (
	RoastLight  RoastLevel = "light"
	RoastMedium RoastLevel = "medium"
	RoastDark   RoastLevel = "dark"
)

// Product is a live catalog row. Orders never reference these prices after
// finalization; they carry their own snapshot.
type Product struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	Name           string            `gorm:"type:text;not null"`
	Slug           string            `gorm:"type:text;not null;uniqueIndex"`
	Description    string            `gorm:"type:text;not null;default:''"`
	PriceCents     int64             `gorm:"not null;check:price_cents >= 0"`
	Category       Category          `gorm:"type:text;not null"`
	ProductType    ProductType       `gorm:"type:text;not null"`
	RoastLevel     *RoastLevel       `gorm:"type:text"`
	WeightOz       int               `gorm:"not null;default:0"`
	BeanType       string            `gorm:"type:text;not null;default:''"`
	HighlightColor string            `gorm:"type:text;not null;default:''"`
	InStock        bool              `gorm:"not null;default:true"`
	RegionID       snowflake.ID      `gorm:"not null;index"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// Snapshot is a point-in-time read of the fields order finalization depends
// on. Products absent from the source map no longer exist.
type Snapshot struct {
	ProductID   snowflake.ID
	Name        string
	PriceCents  int64
	InStock     bool
	RegionID    snowflake.ID
	ProductType ProductType
}
