package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/superj80820/url-shortener/domain"
)

type urlCache struct {
	cache *cache.Cache
}

func CreateURLCache(ttl, cleanupInterval time.Duration) domain.URLCache {
	return &urlCache{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (u *urlCache) Get(ctx context.Context, shortKey string) (string, bool, error) {
	value, ok := u.cache.Get(shortKey)
	if !ok {
		return "", false, nil
	}
	originalURL, ok := value.(string)
	return originalURL, ok, nil
}

func (u *urlCache) Set(ctx context.Context, shortKey, originalURL string) error {
	u.cache.SetDefault(shortKey, originalURL)
	return nil
}
