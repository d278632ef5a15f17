package service

import (
	"context"
	"testing"
	"time"

	"github.com/anoralabs/storefront/internal/clock"
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/subscription/domain"
	"github.com/anoralabs/storefront/internal/subscription/repository"
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
	clock   *clock.FakeClock
	repo    domain.Repository
	service domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Subscription{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := repository.Provide()

	svc := New(Params{
		Config: config.Config{DeliveryInterval: 30 * 24 * time.Hour},
		DB:     db,
		Log:    zap.NewNop(),
		Clock:  fake,
		Repo:   repo,
	})

	return &testEnv{db: db, node: node, clock: fake, repo: repo, service: svc}
}

func (e *testEnv) addSubscription(t *testing.T, userID string, status domain.Status) *domain.Subscription {
	t.Helper()
	now := e.clock.Now()
	next := now.Add(24 * time.Hour)
	sub := &domain.Subscription{
		ID:           e.node.Generate(),
		UserID:       userID,
		ProductID:    e.node.Generate(),
		ProductName:  "monthly-roast",
		Status:       status,
		NextDelivery: &next,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == domain.StatusCancelled || status == domain.StatusPaused {
		sub.NextDelivery = nil
	}
	require.NoError(t, e.repo.Create(context.Background(), e.db, sub))
	return sub
}

func userCtx(userID string) context.Context {
	return usercontext.WithUserID(context.Background(), userID)
}

func TestPauseClearsNextDelivery(t *testing.T) {
	env := newTestEnv(t)
	sub := env.addSubscription(t, "user-1", domain.StatusActive)

	resp, err := env.service.Pause(userCtx("user-1"), sub.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, resp.Status)
	assert.Nil(t, resp.NextDelivery)
}

func TestResumeSchedulesDelivery(t *testing.T) {
	env := newTestEnv(t)
	sub := env.addSubscription(t, "user-1", domain.StatusPaused)

	resp, err := env.service.Resume(userCtx("user-1"), sub.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, resp.Status)
	require.NotNil(t, resp.NextDelivery)
	assert.Equal(t, env.clock.Now().Add(30*24*time.Hour), resp.NextDelivery.UTC())
}

func TestCancelIsFinal(t *testing.T) {
	env := newTestEnv(t)
	sub := env.addSubscription(t, "user-1", domain.StatusActive)

	resp, err := env.service.Cancel(userCtx("user-1"), sub.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Status)
	assert.Nil(t, resp.NextDelivery)

	_, err = env.service.Resume(userCtx("user-1"), sub.ID.String())
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestSetStatusIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	sub := env.addSubscription(t, "user-1", domain.StatusActive)

	resp, err := env.service.Resume(userCtx("user-1"), sub.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, resp.Status)
}

func TestOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	sub := env.addSubscription(t, "user-1", domain.StatusActive)

	_, err := env.service.Pause(userCtx("user-2"), sub.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := env.service.List(userCtx("user-2"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListRequiresUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
