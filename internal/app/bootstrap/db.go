// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/app/system/indexes"
	"github.com/opencurio/resourcehub/internal/app/system/timeouts"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectDB establishes backend connections. The document store pings with
// bounded retries and fails startup when unreachable; the Redis facet cache
// is optional and only probed when configured.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.ConfigureFromEnv()

	docs, err := docstore.Connect(ctx, docstore.Config{
		URI:         appCfg.MongoURI,
		Database:    appCfg.MongoDatabase,
		MaxPoolSize: appCfg.MongoMaxPoolSize,
		MinPoolSize: appCfg.MongoMinPoolSize,
	}, logger)
	if err != nil {
		return DBDeps{}, err
	}

	deps := DBDeps{Docs: docs}

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// The cache is an optimization; run without it rather than
			// refusing to start.
			logger.Warn("redis unreachable, facet caching disabled",
				zap.String("addr", appCfg.RedisAddr),
				zap.Error(err))
			_ = rdb.Close()
		} else {
			logger.Info("connected to redis", zap.String("addr", appCfg.RedisAddr))
			deps.Redis = rdb
		}
	}

	return deps, nil
}

// EnsureSchema reconciles indexes at startup so every deployment converges
// on the same index set.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.Docs.Database())
}
