package migration

import (
	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/anoralabs/storefront/internal/config"
	orderdomain "github.com/anoralabs/storefront/internal/order/domain"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	"github.com/anoralabs/storefront/internal/seed"
	subscriptiondomain "github.com/anoralabs/storefront/internal/subscription/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		// Versioned migrations target postgres. Other dialects (sqlite for
		// local hacking, mysql) derive the schema from the models.
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&regiondomain.Region{},
				&catalogdomain.Product{},
				&cartdomain.CartItem{},
				&orderdomain.Order{},
				&orderdomain.OrderItem{},
				&subscriptiondomain.Subscription{},
			); err != nil {
				return err
			}
		}

		region, err := seed.EnsureDefaultRegion(conn, genID)
		if err != nil {
			return err
		}
		if cfg.SeedCatalog {
			return seed.EnsureStarterCatalog(conn, genID, region.ID)
		}
		return nil
	}),
)
