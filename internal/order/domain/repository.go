package domain

import (
	"context"

	"github.com/anoralabs/storefront/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Create persists the order and its items in the caller's transaction.
	Create(ctx context.Context, db *gorm.DB, order *Order, items []OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)

	// FindByUser returns newest-first pages. limit <= 0 means no limit;
	// cursor, when set, resumes after the (created_at, id) it names.
	FindByUser(ctx context.Context, db *gorm.DB, userID string, limit int, cursor *pagination.Cursor) ([]Order, error)
	FindByIdempotencyKey(ctx context.Context, db *gorm.DB, userID, key string) (*Order, error)
	FindItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]OrderItem, error)

	// UpdateStatus writes the order's status only while the row still holds
	// from, reporting whether the swap landed. A false return means another
	// writer changed the status first.
	UpdateStatus(ctx context.Context, db *gorm.DB, order *Order, from Status) (bool, error)
}
