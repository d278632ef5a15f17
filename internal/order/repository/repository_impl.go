package repository

import (
	"context"
	"time"

	"github.com/anoralabs/storefront/internal/order/domain"
	"github.com/anoralabs/storefront/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const orderColumns = `id, number, user_id, idempotency_key, region_id,
	ship_name, ship_street_1, ship_street_2, ship_city, ship_state, ship_country,
	ship_phone, ship_postal_code,
	subtotal_cents, shipping_cents, total_cents, status, created_at, updated_at`

func (r *repo) Create(ctx context.Context, db *gorm.DB, order *domain.Order, items []domain.OrderItem) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, number, user_id, idempotency_key, region_id,
		   ship_name, ship_street_1, ship_street_2, ship_city, ship_state, ship_country,
		   ship_phone, ship_postal_code,
		   subtotal_cents, shipping_cents, total_cents, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.Number,
		order.UserID,
		order.IdempotencyKey,
		order.RegionID,
		order.Address.Name,
		order.Address.Street1,
		order.Address.Street2,
		order.Address.City,
		order.Address.State,
		order.Address.Country,
		order.Address.Phone,
		order.Address.PostalCode,
		order.SubtotalCents,
		order.ShippingCents,
		order.TotalCents,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
	if err != nil {
		return err
	}

	for _, item := range items {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO order_items (id, order_id, product_id, product_name, unit_price_cents, quantity, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.UnitPriceCents,
			item.Quantity,
			item.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindByUser(ctx context.Context, db *gorm.DB, userID string, limit int, cursor *pagination.Cursor) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ?`
	args := []any{userID}

	if cursor != nil && cursor.CreatedAt != "" && cursor.ID != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, createdAt, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var items []domain.Order
	err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByIdempotencyKey(ctx context.Context, db *gorm.DB, userID, key string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? AND idempotency_key = ?`,
		userID,
		key,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, product_id, product_name, unit_price_cents, quantity, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, order *domain.Order, from domain.Status) (bool, error) {
	if order == nil {
		return false, gorm.ErrInvalidData
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		order.Status,
		order.UpdatedAt,
		order.ID,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
