// Package seed provisions the default region and a starter catalog so a
// fresh install serves a browsable store immediately.
package seed

import (
	"time"

	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const DefaultRegionCode = "global"

// EnsureDefaultRegion creates the global region if no region exists yet and
// returns it.
func EnsureDefaultRegion(db *gorm.DB, genID *snowflake.Node) (*regiondomain.Region, error) {
	var region regiondomain.Region
	err := db.Raw(
		`SELECT id, name, code, flag, currency, free_shipping_threshold_cents, created_at, updated_at
		 FROM regions WHERE code = ?`,
		DefaultRegionCode,
	).Scan(&region).Error
	if err != nil {
		return nil, err
	}
	if region.ID != 0 {
		return &region, nil
	}

	now := time.Now().UTC()
	region = regiondomain.Region{
		ID:                         genID.Generate(),
		Name:                       "Global",
		Code:                       DefaultRegionCode,
		Flag:                       "🌎",
		Currency:                   "USD",
		FreeShippingThresholdCents: 4000,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	if err := db.Exec(
		`INSERT INTO regions (id, name, code, flag, currency, free_shipping_threshold_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		region.ID, region.Name, region.Code, region.Flag, region.Currency,
		region.FreeShippingThresholdCents, region.CreatedAt, region.UpdatedAt,
	).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

type seedProduct struct {
	name           string
	description    string
	priceCents     int64
	category       catalogdomain.Category
	productType    catalogdomain.ProductType
	roastLevel     catalogdomain.RoastLevel
	weightOz       int
	beanType       string
	highlightColor string
}

var starterCatalog = []seedProduct{
	{
		name:           "Morning Ritual",
		description:    "A bright, citrus-forward blend for the first cup of the day.",
		priceCents:     1800,
		category:       catalogdomain.CategoryFeatured,
		productType:    catalogdomain.ProductTypeOneTime,
		roastLevel:     catalogdomain.RoastLight,
		weightOz:       12,
		beanType:       "arabica",
		highlightColor: "yellow",
	},
	{
		name:           "Midnight Oil",
		description:    "Dark and syrupy with notes of cocoa and toasted hazelnut.",
		priceCents:     1900,
		category:       catalogdomain.CategoryFeatured,
		productType:    catalogdomain.ProductTypeOneTime,
		roastLevel:     catalogdomain.RoastDark,
		weightOz:       12,
		beanType:       "arabica",
		highlightColor: "magenta",
	},
	{
		name:           "House Originals",
		description:    "Our balanced everyday medium roast, small-batch since day one.",
		priceCents:     1600,
		category:       catalogdomain.CategoryOriginals,
		productType:    catalogdomain.ProductTypeOneTime,
		roastLevel:     catalogdomain.RoastMedium,
		weightOz:       12,
		beanType:       "arabica blend",
		highlightColor: "cyan",
	},
	{
		name:           "Roaster's Monthly",
		description:    "A rotating single origin delivered every month, roasted to order.",
		priceCents:     2400,
		category:       catalogdomain.CategoryOriginals,
		productType:    catalogdomain.ProductTypeSubscription,
		roastLevel:     catalogdomain.RoastMedium,
		weightOz:       16,
		beanType:       "single origin",
		highlightColor: "green",
	},
}

// EnsureStarterCatalog inserts the starter products if the catalog is empty.
func EnsureStarterCatalog(db *gorm.DB, genID *snowflake.Node, regionID snowflake.ID) error {
	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM products`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, sp := range starterCatalog {
		roast := sp.roastLevel
		err := db.Exec(
			`INSERT INTO products (id, name, slug, description, price_cents, category, product_type,
			   roast_level, weight_oz, bean_type, highlight_color, in_stock, region_id, metadata,
			   created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			genID.Generate(),
			sp.name,
			slug.Make(sp.name),
			sp.description,
			sp.priceCents,
			sp.category,
			sp.productType,
			roast,
			sp.weightOz,
			sp.beanType,
			sp.highlightColor,
			true,
			regionID,
			nil,
			now,
			now,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
