package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	redisKit "github.com/superj80820/url-shortener/kit/redis"
)

const keyPrefix = "url:short-key:"

type urlCache struct {
	cache *redisKit.Cache
	ttl   time.Duration
}

func CreateURLCache(cache *redisKit.Cache, ttl time.Duration) domain.URLCache {
	return &urlCache{
		cache: cache,
		ttl:   ttl,
	}
}

func (u *urlCache) Get(ctx context.Context, shortKey string) (string, bool, error) {
	originalURL, exists, err := u.cache.Get(ctx, keyPrefix+shortKey)
	if err != nil {
		return "", false, errors.Wrap(err, "get url cache failed")
	}
	return originalURL, exists, nil
}

func (u *urlCache) Set(ctx context.Context, shortKey, originalURL string) error {
	if err := u.cache.Set(ctx, keyPrefix+shortKey, originalURL, u.ttl); err != nil {
		return errors.Wrap(err, "set url cache failed")
	}
	return nil
}
