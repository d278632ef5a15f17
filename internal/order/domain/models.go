// Package domain contains persistence models for orders and their immutable
// line-item snapshots.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ShippingAddress is denormalized onto the order row at finalization time.
type ShippingAddress struct {
	Name       string `gorm:"column:ship_name;type:text;not null;default:''" json:"name"`
	Street1    string `gorm:"column:ship_street_1;type:text;not null;default:''" json:"street_1"`
	Street2    string `gorm:"column:ship_street_2;type:text;not null;default:''" json:"street_2"`
	City       string `gorm:"column:ship_city;type:text;not null;default:''" json:"city"`
	State      string `gorm:"column:ship_state;type:text;not null;default:''" json:"state"`
	Country    string `gorm:"column:ship_country;type:text;not null;default:''" json:"country"`
	Phone      string `gorm:"column:ship_phone;type:text;not null;default:''" json:"phone"`
	PostalCode string `gorm:"column:ship_postal_code;type:text;not null;default:''" json:"postal_code"`
}

// IsComplete reports whether the address carries the minimum deliverable
// fields.
func (a ShippingAddress) IsComplete() bool {
	return a.Name != "" && a.Street1 != "" && a.City != "" && a.Country != "" && a.PostalCode != ""
}

// Order is immutable once created except for status and updated_at. Totals
// and the address are captured at finalization and never recomputed.
type Order struct {
	ID             snowflake.ID    `gorm:"primaryKey"`
	Number         string          `gorm:"type:text;not null;uniqueIndex"`
	UserID         string          `gorm:"type:text;not null;index;uniqueIndex:ux_orders_user_idem,priority:1"`
	IdempotencyKey string          `gorm:"type:text;not null;uniqueIndex:ux_orders_user_idem,priority:2"`
	RegionID       snowflake.ID    `gorm:"not null"`
	Address        ShippingAddress `gorm:"embedded"`
	SubtotalCents  int64           `gorm:"not null"`
	ShippingCents  int64           `gorm:"not null"`
	TotalCents     int64           `gorm:"not null"`
	Status         Status          `gorm:"type:text;not null"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// OrderItem snapshots product name and unit price at order time. ProductID
// is nulled if the product is later deleted; the snapshot survives.
type OrderItem struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	OrderID        snowflake.ID  `gorm:"not null;index"`
	ProductID      *snowflake.ID `gorm:"index"`
	ProductName    string        `gorm:"type:text;not null"`
	UnitPriceCents int64         `gorm:"not null"`
	Quantity       int64         `gorm:"not null;check:quantity >= 1"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (OrderItem) TableName() string { return "order_items" }
