package repository

import (
	"context"

	"github.com/anoralabs/storefront/internal/cart/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, product_id, quantity, created_at, updated_at
		 FROM cart_items WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByUserAndProduct(ctx context.Context, db *gorm.DB, userID string, productID snowflake.ID) (*domain.CartItem, error) {
	var item domain.CartItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, product_id, quantity, created_at, updated_at
		 FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID,
		productID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, item *domain.CartItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) UpdateQuantity(ctx context.Context, db *gorm.DB, item *domain.CartItem) error {
	if item == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE user_id = ? AND product_id = ?`,
		item.Quantity,
		item.UpdatedAt,
		item.UserID,
		item.ProductID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID string, productID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID,
		productID,
	).Error
}

func (r *repo) DeleteByUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE user_id = ?`,
		userID,
	).Error
}
