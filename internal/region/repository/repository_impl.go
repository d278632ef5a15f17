package repository

import (
	"context"

	"github.com/anoralabs/storefront/internal/region/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Region, error) {
	var items []domain.Region
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, code, flag, currency, free_shipping_threshold_cents, created_at, updated_at
		 FROM regions ORDER BY name ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Region, error) {
	var region domain.Region
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, code, flag, currency, free_shipping_threshold_cents, created_at, updated_at
		 FROM regions WHERE id = ?`,
		id,
	).Scan(&region).Error
	if err != nil {
		return nil, err
	}
	if region.ID == 0 {
		return nil, nil
	}
	return &region, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Region, error) {
	var region domain.Region
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, code, flag, currency, free_shipping_threshold_cents, created_at, updated_at
		 FROM regions WHERE code = ?`,
		code,
	).Scan(&region).Error
	if err != nil {
		return nil, err
	}
	if region.ID == 0 {
		return nil, nil
	}
	return &region, nil
}
