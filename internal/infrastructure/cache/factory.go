package cache

import (
	"github.com/dropship/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New creates the storefront cache. It tries Redis first and falls back
// to the in-memory cache when Redis is unavailable, so a missing Redis
// never blocks startup. Disabling the cache in config yields a no-op
// cache so every read hits the database.
func New(cfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) Cache {
	if !cfg.Enabled {
		logger.Info("cache disabled by configuration")
		return NewNoopCache()
	}

	redisCache, err := NewRedisCache(redisCfg)
	if err == nil {
		logger.Info("using Redis cache", zap.String("addr", redisCfg.Addr()))
		return redisCache
	}

	logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Cached entries will not be shared across instances.",
		zap.Error(err),
	)
	return NewMemoryCache()
}
