package orm

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superj80820/url-shortener/domain"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	"github.com/superj80820/url-shortener/kit/testing/container"
	"golang.org/x/sync/errgroup"
)

func testURLRepo(t *testing.T, ctx context.Context, ormDB *ormKit.DB) {
	urlRepo := CreateURLRepo(ormDB)

	_, err := urlRepo.GetByOriginalURL(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, domain.ErrNoData)
	_, err = urlRepo.GetByShortKey(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNoData)

	insertResult, err := urlRepo.Insert(ctx, &domain.URL{ID: 100, ShortKey: "abc", OriginalURL: "https://example.com/a"})
	assert.Nil(t, err)
	assert.Equal(t, domain.CreatedInsertResultEnum, insertResult.Status)
	assert.Equal(t, int64(100), insertResult.URL.ID)
	assert.False(t, insertResult.URL.CreatedAt.IsZero())

	for _, testCase := range []struct {
		scenario string
		url      *domain.URL
		status   domain.InsertResultEnum
	}{
		{
			scenario: "same original url",
			url:      &domain.URL{ID: 101, ShortKey: "abd", OriginalURL: "https://example.com/a"},
			status:   domain.ConflictInsertResultEnum,
		},
		{
			scenario: "same short key",
			url:      &domain.URL{ID: 102, ShortKey: "abc", OriginalURL: "https://example.com/b"},
			status:   domain.ConflictInsertResultEnum,
		},
		{
			scenario: "same id",
			url:      &domain.URL{ID: 100, ShortKey: "abe", OriginalURL: "https://example.com/c"},
			status:   domain.ConflictInsertResultEnum,
		},
		{
			scenario: "short key differs only in case",
			url:      &domain.URL{ID: 103, ShortKey: "ABC", OriginalURL: "https://example.com/d"},
			status:   domain.CreatedInsertResultEnum,
		},
	} {
		insertResult, err := urlRepo.Insert(ctx, testCase.url)
		assert.Nil(t, err, testCase.scenario)
		assert.Equal(t, testCase.status, insertResult.Status, testCase.scenario)
	}

	url, err := urlRepo.GetByOriginalURL(ctx, "https://example.com/a")
	assert.Nil(t, err)
	assert.Equal(t, int64(100), url.ID)
	assert.Equal(t, "abc", url.ShortKey)
	assert.WithinDuration(t, insertResult.URL.CreatedAt, url.CreatedAt, time.Second)

	url, err = urlRepo.GetByShortKey(ctx, "ABC")
	assert.Nil(t, err)
	assert.Equal(t, "https://example.com/d", url.OriginalURL)

	_, err = urlRepo.GetByOriginalURL(ctx, "https://example.com/A")
	assert.ErrorIs(t, err, domain.ErrNoData)

	var (
		eg      errgroup.Group
		created = make([]bool, 8)
	)
	for i := range created {
		i := i
		eg.Go(func() error {
			insertResult, err := urlRepo.Insert(ctx, &domain.URL{
				ID:          int64(1000 + i),
				ShortKey:    fmt.Sprintf("race%d", i),
				OriginalURL: "https://example.com/race",
			})
			if err != nil {
				return err
			}
			created[i] = insertResult.Status == domain.CreatedInsertResultEnum
			return nil
		})
	}
	assert.Nil(t, eg.Wait())
	createdCount := 0
	for _, isCreated := range created {
		if isCreated {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)

	var rowCount int64
	require.Nil(t, ormDB.WithContext(ctx).Table("url_mapping").Where("original_url = ?", "https://example.com/race").Count(&rowCount).Error)
	assert.Equal(t, int64(1), rowCount)
}

func TestSQLiteURLRepo(t *testing.T) {
	ctx := context.Background()

	ormDB, err := ormKit.CreateDB(
		ormKit.UseSQLite(filepath.Join(t.TempDir(), "url.db")+"?_busy_timeout=5000"),
		ormKit.WithMaxConns(1, 1),
	)
	require.Nil(t, err)
	defer ormDB.Close()

	require.Nil(t, Migrate(ctx, ormDB))
	require.Nil(t, Migrate(ctx, ormDB))

	testURLRepo(t, ctx, ormDB)
}

func TestMySQLURLRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skip mysql container in short mode")
	}
	ctx := context.Background()

	mysqlContainer, err := container.RunMySQL(ctx, filepath.Join("schema", "mysql.sql"))
	require.Nil(t, err)
	defer mysqlContainer.Terminate(ctx)

	testURLRepo(t, ctx, mysqlContainer.DB)
}

func TestPostgresURLRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skip postgres container in short mode")
	}
	ctx := context.Background()

	postgresContainer, err := container.RunPostgres(ctx, filepath.Join("schema", "postgres.sql"))
	require.Nil(t, err)
	defer postgresContainer.Terminate(ctx)

	testURLRepo(t, ctx, postgresContainer.DB)
}
