package redis_client

import (
	"context"
	"log/slog"

	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Infrastructure.Redis.Addr,
		Password: cfg.Infrastructure.Redis.Password,
		DB:       cfg.Infrastructure.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable at startup", "addr", cfg.Infrastructure.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client
}

// Key joins parts under the configured namespace, e.g. "trade-disclosure:session:abc".
func Key(namespace string, parts ...string) string {
	key := namespace
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
