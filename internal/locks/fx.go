package locks

import (
	"github.com/anoralabs/storefront/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the optional redis-backed locker. Without REDIS_ADDR the
// locker is nil and callers fall back to database-level idempotency alone.
var Module = fx.Module("locks",
	fx.Provide(provideClient),
	fx.Provide(NewLocker),
)

func provideClient(cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured; per-user finalize locks disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
