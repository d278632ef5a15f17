package service

import (
	"context"
	"testing"
	"time"

	"github.com/anoralabs/storefront/internal/cart/domain"
	cartrepo "github.com/anoralabs/storefront/internal/cart/repository"
	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	catalogrepo "github.com/anoralabs/storefront/internal/catalog/repository"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	"github.com/anoralabs/storefront/internal/usercontext"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	node    *snowflake.Node
	service domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&regiondomain.Region{},
		&catalogdomain.Product{},
		&domain.CartItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        cartrepo.Provide(),
		CatalogRepo: catalogrepo.Provide(),
	})

	return &testEnv{db: db, node: node, service: svc}
}

func (e *testEnv) addProduct(t *testing.T, name string, priceCents int64, inStock bool) snowflake.ID {
	t.Helper()
	now := time.Now().UTC()
	p := &catalogdomain.Product{
		ID:          e.node.Generate(),
		Name:        name,
		Slug:        name,
		PriceCents:  priceCents,
		Category:    catalogdomain.CategoryOriginals,
		ProductType: catalogdomain.ProductTypeOneTime,
		InStock:     inStock,
		RegionID:    e.node.Generate(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p.ID
}

func userCtx(userID string) context.Context {
	return usercontext.WithUserID(context.Background(), userID)
}

func TestAddComputesLineTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 1800, true)

	resp, err := env.service.Add(ctx, domain.AddRequest{
		ProductID: beans.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.EqualValues(t, 1800, resp.Items[0].UnitPriceCents)
	assert.EqualValues(t, 3600, resp.Items[0].LineTotalCents)
	assert.EqualValues(t, 3600, resp.SubtotalCents)
	assert.EqualValues(t, 2, resp.TotalItems)
}

func TestAddIncrementsExistingRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 1800, true)

	_, err := env.service.Add(ctx, domain.AddRequest{ProductID: beans.String(), Quantity: 1})
	require.NoError(t, err)
	resp, err := env.service.Add(ctx, domain.AddRequest{ProductID: beans.String(), Quantity: 1})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.EqualValues(t, 2, resp.Items[0].Quantity)
	assert.EqualValues(t, 3600, resp.SubtotalCents)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 1800, true)
	_, err := env.service.Add(ctx, domain.AddRequest{ProductID: beans.String(), Quantity: 2})
	require.NoError(t, err)

	resp, err := env.service.UpdateQuantity(ctx, domain.UpdateQuantityRequest{
		ProductID: beans.String(),
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.EqualValues(t, 0, resp.SubtotalCents)
}

func TestListFlagsVanishedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	phantom := env.node.Generate()
	now := time.Now().UTC()
	require.NoError(t, env.db.Create(&domain.CartItem{
		ID:        env.node.Generate(),
		UserID:    "user-1",
		ProductID: phantom,
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	resp, err := env.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Unavailable)
	// Unavailable rows contribute nothing to the subtotal.
	assert.EqualValues(t, 0, resp.SubtotalCents)
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Add(userCtx("user-1"), domain.AddRequest{
		ProductID: env.node.Generate().String(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListRequiresUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
