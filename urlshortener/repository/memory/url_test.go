package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/superj80820/url-shortener/domain"
)

func TestURLRepo(t *testing.T) {
	ctx := context.Background()
	urlRepo := CreateURLRepo()

	_, err := urlRepo.GetByShortKey(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNoData)

	insertResult, err := urlRepo.Insert(ctx, &domain.URL{ID: 1, ShortKey: "abc", OriginalURL: "https://example.com"})
	assert.Nil(t, err)
	assert.Equal(t, domain.CreatedInsertResultEnum, insertResult.Status)
	assert.False(t, insertResult.URL.CreatedAt.IsZero())

	for _, url := range []*domain.URL{
		{ID: 1, ShortKey: "abd", OriginalURL: "https://example.com/1"},
		{ID: 2, ShortKey: "abc", OriginalURL: "https://example.com/2"},
		{ID: 3, ShortKey: "abe", OriginalURL: "https://example.com"},
	} {
		insertResult, err := urlRepo.Insert(ctx, url)
		assert.Nil(t, err)
		assert.Equal(t, domain.ConflictInsertResultEnum, insertResult.Status)
		assert.Nil(t, insertResult.URL)
	}

	url, err := urlRepo.GetByOriginalURL(ctx, "https://example.com")
	assert.Nil(t, err)
	assert.Equal(t, "abc", url.ShortKey)

	url.OriginalURL = "mutated"
	url, err = urlRepo.GetByShortKey(ctx, "abc")
	assert.Nil(t, err)
	assert.Equal(t, "https://example.com", url.OriginalURL)

	canceledCtx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = urlRepo.GetByShortKey(canceledCtx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}
