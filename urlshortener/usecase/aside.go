package usecase

import (
	"context"

	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
)

type loadFunc func(ctx context.Context) (string, error)

// getWithCacheAside reads key from cache, loads it on a miss and stores the
// loaded value. Cache failures are logged and never fail the read.
func getWithCacheAside(ctx context.Context, cache domain.URLCache, logger *loggerKit.Logger, key string, load loadFunc) (string, error) {
	value, exists, err := cache.Get(ctx, key)
	if err != nil {
		logger.Warn("get cache failed, fall back to store", loggerKit.String("key", key), loggerKit.Error(err))
	} else if exists {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return "", err
	}

	if err := cache.Set(ctx, key, value); err != nil {
		logger.Warn("set cache failed", loggerKit.String("key", key), loggerKit.Error(err))
	}

	return value, nil
}

type noopURLCache struct{}

func (noopURLCache) Get(ctx context.Context, shortKey string) (string, bool, error) {
	return "", false, nil
}

func (noopURLCache) Set(ctx context.Context, shortKey, originalURL string) error {
	return nil
}
