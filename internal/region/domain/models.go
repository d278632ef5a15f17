// Package domain contains persistence models for shipping regions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Region is the authority for currency and free-shipping policy. Order
// finalization reads it and never writes it.
type Region struct {
	ID                         snowflake.ID `gorm:"primaryKey"`
	Name                       string       `gorm:"type:text;not null"`
	Code                       string       `gorm:"type:text;not null;uniqueIndex"`
	Flag                       string       `gorm:"type:text;not null;default:''"`
	Currency                   string       `gorm:"type:text;not null"`
	FreeShippingThresholdCents int64        `gorm:"not null;check:free_shipping_threshold_cents >= 0"`
	CreatedAt                  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Region) TableName() string { return "regions" }
