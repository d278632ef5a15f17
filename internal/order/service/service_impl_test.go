package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	cartrepo "github.com/anoralabs/storefront/internal/cart/repository"
	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	catalogrepo "github.com/anoralabs/storefront/internal/catalog/repository"
	catalogservice "github.com/anoralabs/storefront/internal/catalog/service"
	"github.com/anoralabs/storefront/internal/clock"
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/order/domain"
	orderrepo "github.com/anoralabs/storefront/internal/order/repository"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	regionrepo "github.com/anoralabs/storefront/internal/region/repository"
	subscriptiondomain "github.com/anoralabs/storefront/internal/subscription/domain"
	subscriptionrepo "github.com/anoralabs/storefront/internal/subscription/repository"
	"github.com/anoralabs/storefront/internal/usercontext"
	"github.com/anoralabs/storefront/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	service  domain.Service
	cartRepo cartdomain.Repository
	subsRepo subscriptiondomain.Repository
	region   *regiondomain.Region
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&regiondomain.Region{},
		&catalogdomain.Product{},
		&cartdomain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&subscriptiondomain.Subscription{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	region := &regiondomain.Region{
		ID:                         node.Generate(),
		Name:                       "Global",
		Code:                       "global",
		Currency:                   "USD",
		FreeShippingThresholdCents: 4000,
		CreatedAt:                  fake.Now(),
		UpdatedAt:                  fake.Now(),
	}
	require.NoError(t, db.Create(region).Error)

	log := zap.NewNop()
	regions := regionrepo.Provide()
	catalog := catalogservice.New(catalogservice.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Repo:       catalogrepo.Provide(),
		RegionRepo: regions,
	})

	cfg := config.Config{
		FlatShippingFeeCents: 500,
		FinalizeLockTTL:      10 * time.Second,
		DeliveryInterval:     30 * 24 * time.Hour,
	}

	env := &testEnv{
		db:       db,
		node:     node,
		clock:    fake,
		cartRepo: cartrepo.Provide(),
		subsRepo: subscriptionrepo.Provide(),
		region:   region,
	}
	env.service = New(Params{
		Config:   cfg,
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Repo:     orderrepo.Provide(),
		CartRepo: env.cartRepo,
		Catalog:  catalog,
		Regions:  regions,
		Subs:     env.subsRepo,
	})
	return env
}

func (e *testEnv) addProduct(t *testing.T, name string, priceCents int64, productType catalogdomain.ProductType, inStock bool) snowflake.ID {
	t.Helper()
	now := e.clock.Now()
	p := &catalogdomain.Product{
		ID:          e.node.Generate(),
		Name:        name,
		Slug:        name,
		PriceCents:  priceCents,
		Category:    catalogdomain.CategoryOriginals,
		ProductType: productType,
		InStock:     inStock,
		RegionID:    e.region.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p.ID
}

func (e *testEnv) addCartItem(t *testing.T, userID string, productID snowflake.ID, qty int64) {
	t.Helper()
	now := e.clock.Now()
	require.NoError(t, e.db.Create(&cartdomain.CartItem{
		ID:        e.node.Generate(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

func userCtx(userID string) context.Context {
	return usercontext.WithUserID(context.Background(), userID)
}

func testAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:       "Ada Lovelace",
		Street1:    "1 Analytical Way",
		City:       "London",
		Country:    "GB",
		PostalCode: "EC1A 1BB",
	}
}

func (e *testEnv) finalize(ctx context.Context, key string) (*domain.Response, error) {
	return e.service.Finalize(ctx, domain.FinalizeRequest{
		IdempotencyKey:  key,
		RegionCode:      "global",
		ShippingAddress: testAddress(),
	})
}

func TestFinalizeHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 1800, catalogdomain.ProductTypeOneTime, true)
	grinder := env.addProduct(t, "burr-grinder", 1900, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 2)
	env.addCartItem(t, "user-1", grinder, 2)

	resp, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	// 2×1800 + 2×1900 = 7400, above the 4000 threshold so shipping is free.
	assert.EqualValues(t, 7400, resp.SubtotalCents)
	assert.EqualValues(t, 0, resp.ShippingCents)
	assert.EqualValues(t, 7400, resp.TotalCents)
	assert.Equal(t, "$74.00", resp.TotalDisplay)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Len(t, resp.Items, 2)
	assert.NotEmpty(t, resp.Number)

	// The cart is consumed by finalization.
	remaining, err := env.cartRepo.FindByUser(ctx, env.db, "user-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestFinalizeFlatShippingBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "sampler", 1500, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	resp, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	assert.EqualValues(t, 1500, resp.SubtotalCents)
	assert.EqualValues(t, 500, resp.ShippingCents)
	assert.EqualValues(t, 2000, resp.TotalCents)
}

func TestFinalizeEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.finalize(userCtx("user-1"), "key-1")
	assert.ErrorIs(t, err, cartdomain.ErrEmptyCart)
}

func TestFinalizeOutOfStockLeavesCartUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	ok := env.addProduct(t, "in-stock", 2000, catalogdomain.ProductTypeOneTime, true)
	gone := env.addProduct(t, "sold-out", 3000, catalogdomain.ProductTypeOneTime, false)
	env.addCartItem(t, "user-1", ok, 1)
	env.addCartItem(t, "user-1", gone, 1)

	_, err := env.finalize(ctx, "key-1")
	var oos *domain.OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, gone.String(), oos.ProductID)

	// Rejection rolls back; the user can fix the cart and retry.
	remaining, err := env.cartRepo.FindByUser(ctx, env.db, "user-1")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	orders, err := env.service.List(ctx, pagination.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, orders.Orders)
}

func TestFinalizeVanishedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	phantom := env.node.Generate()
	env.addCartItem(t, "user-1", phantom, 1)

	_, err := env.finalize(ctx, "key-1")
	var gone *domain.ProductGoneError
	require.True(t, errors.As(err, &gone))
	assert.Equal(t, phantom.String(), gone.ProductID)
}

func TestFinalizeIdempotentResubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	first, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	// Same key again: the stored order comes back even though the cart is
	// now empty.
	second, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, first.TotalCents, second.TotalCents)

	orders, err := env.service.List(ctx, pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, orders.Orders, 1)
}

func TestListOrdersPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	for i := 0; i < 3; i++ {
		env.addCartItem(t, "user-1", beans, 1)
		_, err := env.finalize(ctx, fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		env.clock.Advance(time.Minute)
	}

	first, err := env.service.List(ctx, pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Orders, 2)
	require.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	second, err := env.service.List(ctx, pagination.Pagination{
		PageSize:  2,
		PageToken: first.PageInfo.NextPageToken,
	})
	require.NoError(t, err)
	assert.Len(t, second.Orders, 1)
	assert.False(t, second.PageInfo.HasMore)

	seen := map[string]bool{}
	for _, o := range append(first.Orders, second.Orders...) {
		seen[o.ID] = true
	}
	assert.Len(t, seen, 3)

	_, err = env.service.List(ctx, pagination.Pagination{PageToken: "not-base64!"})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}

func TestFinalizeRequiresIdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	_, err := env.finalize(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrMissingIdempotencyKey)
}

func TestFinalizeRequiresCompleteAddress(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	_, err := env.service.Finalize(ctx, domain.FinalizeRequest{
		IdempotencyKey:  "key-1",
		RegionCode:      "global",
		ShippingAddress: domain.ShippingAddress{Name: "Ada"},
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteAddress)
}

func TestFinalizeUnknownRegion(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	_, err := env.service.Finalize(ctx, domain.FinalizeRequest{
		IdempotencyKey:  "key-1",
		RegionCode:      "atlantis",
		ShippingAddress: testAddress(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)
}

func TestFinalizeUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.finalize(context.Background(), "key-1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestFinalizeCreatesSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	monthly := env.addProduct(t, "monthly-roast", 2400, catalogdomain.ProductTypeSubscription, true)
	env.addCartItem(t, "user-1", monthly, 1)

	_, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	sub, err := env.subsRepo.FindByUserAndProduct(ctx, env.db, "user-1", monthly)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, subscriptiondomain.StatusActive, sub.Status)
	require.NotNil(t, sub.NextDelivery)
	assert.Equal(t, env.clock.Now().Add(30*24*time.Hour), sub.NextDelivery.UTC())
}

func TestFinalizeReactivatesCancelledSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	monthly := env.addProduct(t, "monthly-roast", 2400, catalogdomain.ProductTypeSubscription, true)
	now := env.clock.Now()
	require.NoError(t, env.subsRepo.Create(ctx, env.db, &subscriptiondomain.Subscription{
		ID:          env.node.Generate(),
		UserID:      "user-1",
		ProductID:   monthly,
		ProductName: "monthly-roast",
		Status:      subscriptiondomain.StatusCancelled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))

	env.addCartItem(t, "user-1", monthly, 1)
	_, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	sub, err := env.subsRepo.FindByUserAndProduct(ctx, env.db, "user-1", monthly)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, subscriptiondomain.StatusActive, sub.Status)
	require.NotNil(t, sub.NextDelivery)
}

func TestTransitionStatusFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	order, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	for _, status := range []string{"processing", "shipped", "delivered"} {
		resp, err := env.service.TransitionStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, domain.Status(status), resp.Status)
	}

	// Delivered is terminal.
	_, err = env.service.TransitionStatus(ctx, order.ID, "cancelled")
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, domain.StatusDelivered, te.From)
	assert.Equal(t, domain.StatusCancelled, te.To)
}

func TestTransitionStatusRejectsSkips(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	order, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	_, err = env.service.TransitionStatus(ctx, order.ID, "delivered")
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))

	_, err = env.service.TransitionStatus(ctx, order.ID, "refunded")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestTransitionStatusStaleWriteLosesToCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("user-1")

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	order, err := env.finalize(ctx, "key-1")
	require.NoError(t, err)

	repo := orderrepo.Provide()
	orderID, err := snowflake.ParseString(order.ID)
	require.NoError(t, err)

	// A slow actor reads pending and validates pending -> processing.
	stale, err := repo.FindByID(ctx, env.db, orderID)
	require.NoError(t, err)
	next, err := domain.ValidateTransition(stale.Status, domain.StatusProcessing)
	require.NoError(t, err)

	// A faster actor cancels before the slow one writes.
	_, err = env.service.TransitionStatus(ctx, order.ID, "cancelled")
	require.NoError(t, err)

	// The stale write swaps against pending, which is gone, so it must not
	// land and the order must stay cancelled.
	stale.Status = next
	stale.UpdatedAt = env.clock.Now()
	updated, err := repo.UpdateStatus(ctx, env.db, stale, domain.StatusPending)
	require.NoError(t, err)
	assert.False(t, updated)

	resp, err := env.service.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Status)

	// Retrying through the service reports the state that actually won.
	_, err = env.service.TransitionStatus(ctx, order.ID, "processing")
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, domain.StatusCancelled, te.From)
	assert.Equal(t, domain.StatusProcessing, te.To)
}

func TestTransitionStatusOwnership(t *testing.T) {
	env := newTestEnv(t)

	beans := env.addProduct(t, "house-blend", 5000, catalogdomain.ProductTypeOneTime, true)
	env.addCartItem(t, "user-1", beans, 1)

	order, err := env.finalize(userCtx("user-1"), "key-1")
	require.NoError(t, err)

	_, err = env.service.TransitionStatus(userCtx("user-2"), order.ID, "processing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.service.Get(userCtx("user-2"), order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetInvalidID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Get(userCtx("user-1"), "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
