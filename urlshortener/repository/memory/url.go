package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
)

// URLRepo enforces the same unique constraints as the url_mapping table:
// id, short key and original url.
type URLRepo struct {
	lock          sync.RWMutex
	byID          map[int64]*domain.URL
	byShortKey    map[string]*domain.URL
	byOriginalURL map[string]*domain.URL
}

func CreateURLRepo() *URLRepo {
	return &URLRepo{
		byID:          make(map[int64]*domain.URL),
		byShortKey:    make(map[string]*domain.URL),
		byOriginalURL: make(map[string]*domain.URL),
	}
}

func (u *URLRepo) Insert(ctx context.Context, url *domain.URL) (*domain.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "insert url mapping failed")
	}

	u.lock.Lock()
	defer u.lock.Unlock()

	_, idExists := u.byID[url.ID]
	_, shortKeyExists := u.byShortKey[url.ShortKey]
	_, originalURLExists := u.byOriginalURL[url.OriginalURL]
	if idExists || shortKeyExists || originalURLExists {
		return &domain.InsertResult{Status: domain.ConflictInsertResultEnum}, nil
	}

	stored := *url
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	u.byID[stored.ID] = &stored
	u.byShortKey[stored.ShortKey] = &stored
	u.byOriginalURL[stored.OriginalURL] = &stored

	result := stored
	return &domain.InsertResult{
		Status: domain.CreatedInsertResultEnum,
		URL:    &result,
	}, nil
}

func (u *URLRepo) GetByOriginalURL(ctx context.Context, originalURL string) (*domain.URL, error) {
	return u.get(ctx, func() (*domain.URL, bool) {
		url, ok := u.byOriginalURL[originalURL]
		return url, ok
	})
}

func (u *URLRepo) GetByShortKey(ctx context.Context, shortKey string) (*domain.URL, error) {
	return u.get(ctx, func() (*domain.URL, bool) {
		url, ok := u.byShortKey[shortKey]
		return url, ok
	})
}

// Len returns the number of stored mappings.
func (u *URLRepo) Len() int {
	u.lock.RLock()
	defer u.lock.RUnlock()

	return len(u.byID)
}

func (u *URLRepo) get(ctx context.Context, lookup func() (*domain.URL, bool)) (*domain.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "get url mapping failed")
	}

	u.lock.RLock()
	defer u.lock.RUnlock()

	url, ok := lookup()
	if !ok {
		return nil, errors.Wrap(domain.ErrNoData, "get url mapping failed")
	}
	result := *url
	return &result, nil
}
