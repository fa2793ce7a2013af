package memcache_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/internal/config"
	"tripcanvas/internal/infra"
	mem "tripcanvas/pkg/memcache"
)

var Module = fx.Provide(provideRevokedTokenStore)

// Without REDIS_ADDR revocations are kept in process memory.
func provideRevokedTokenStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (mem.RevokedTokenStore, error) {
	if cfg.Storage.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory token revocation")
		return mem.NewRevokedTokens(), nil
	}

	client, err := infra.InitRedis(context.Background(), cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return mem.NewRedisRevokedTokens(client), nil
}
