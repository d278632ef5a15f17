package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]Subscription, error)
	FindByUserAndProduct(ctx context.Context, db *gorm.DB, userID string, productID snowflake.ID) (*Subscription, error)
	Update(ctx context.Context, db *gorm.DB, sub *Subscription) error

	// FindDue returns active subscriptions whose next delivery is at or
	// before the cutoff.
	FindDue(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) ([]Subscription, error)
}
