// Package domain contains persistence models for product subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status represents lifecycle states for a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Subscription associates a user with a recurring product. Its lifecycle is
// independent of orders.
type Subscription struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	UserID       string       `gorm:"type:text;not null;uniqueIndex:ux_subscriptions_user_product,priority:1"`
	ProductID    snowflake.ID `gorm:"not null;uniqueIndex:ux_subscriptions_user_product,priority:2"`
	ProductName  string       `gorm:"type:text;not null"`
	Status       Status       `gorm:"type:text;not null"`
	NextDelivery *time.Time   `gorm:""`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
