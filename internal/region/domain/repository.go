package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]Region, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Region, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Region, error)
}
