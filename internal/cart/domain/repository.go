package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]CartItem, error)
	FindByUserAndProduct(ctx context.Context, db *gorm.DB, userID string, productID snowflake.ID) (*CartItem, error)
	Create(ctx context.Context, db *gorm.DB, item *CartItem) error
	UpdateQuantity(ctx context.Context, db *gorm.DB, item *CartItem) error
	Delete(ctx context.Context, db *gorm.DB, userID string, productID snowflake.ID) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID string) error
}
