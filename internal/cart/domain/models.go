// Package domain contains persistence models and the aggregation logic for
// shopping carts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CartItem is one (user, product) row. The unique index guarantees at most
// one row per pair; Add upserts into it.
type CartItem struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    string       `gorm:"type:text;not null;uniqueIndex:ux_cart_user_product,priority:1"`
	ProductID snowflake.ID `gorm:"not null;uniqueIndex:ux_cart_user_product,priority:2"`
	Quantity  int64        `gorm:"not null;check:quantity >= 1"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CartItem) TableName() string { return "cart_items" }
