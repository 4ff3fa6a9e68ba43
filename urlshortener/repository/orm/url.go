package orm

import (
	"context"
	"embed"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	utilKit "github.com/superj80820/url-shortener/kit/util"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type urlEntity struct {
	ID              int64
	ShortKey        string
	OriginalURL     string
	OriginalURLHash string
	CreatedAt       time.Time
}

func (urlEntity) TableName() string {
	return "url_mapping"
}

func (u *urlEntity) toDomain() *domain.URL {
	return &domain.URL{
		ID:          u.ID,
		ShortKey:    u.ShortKey,
		OriginalURL: u.OriginalURL,
		CreatedAt:   u.CreatedAt,
	}
}

type urlRepo struct {
	db *ormKit.DB
}

func CreateURLRepo(db *ormKit.DB) domain.URLRepo {
	return &urlRepo{
		db: db,
	}
}

// Migrate creates the url_mapping table with the dialect's schema file.
func Migrate(ctx context.Context, db *ormKit.DB) error {
	schema, err := schemaFS.ReadFile("schema/" + db.Type() + ".sql")
	if err != nil {
		return errors.Wrap(err, "read schema failed, db type: "+db.Type())
	}
	if err := db.WithContext(ctx).Exec(string(schema)).Error; err != nil {
		return errors.Wrap(err, "exec schema failed")
	}
	return nil
}

func (u *urlRepo) Insert(ctx context.Context, url *domain.URL) (*domain.InsertResult, error) {
	entity := urlEntity{
		ID:              url.ID,
		ShortKey:        url.ShortKey,
		OriginalURL:     url.OriginalURL,
		OriginalURLHash: utilKit.GetSHA256(url.OriginalURL),
		CreatedAt:       url.CreatedAt,
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if err := u.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if ormKit.IsDuplicatedKeyErr(err) {
			return &domain.InsertResult{Status: domain.ConflictInsertResultEnum}, nil
		}
		return nil, errors.Wrap(err, "create url mapping failed")
	}

	return &domain.InsertResult{
		Status: domain.CreatedInsertResultEnum,
		URL:    entity.toDomain(),
	}, nil
}

func (u *urlRepo) GetByOriginalURL(ctx context.Context, originalURL string) (*domain.URL, error) {
	var entity urlEntity
	err := u.db.WithContext(ctx).
		Where("original_url_hash = ? AND original_url = ?", utilKit.GetSHA256(originalURL), originalURL).
		First(&entity).Error
	if errors.Is(err, ormKit.ErrRecordNotFound) {
		return nil, errors.Wrap(domain.ErrNoData, "get url mapping by original url failed")
	} else if err != nil {
		return nil, errors.Wrap(err, "get url mapping by original url failed")
	}
	return entity.toDomain(), nil
}

func (u *urlRepo) GetByShortKey(ctx context.Context, shortKey string) (*domain.URL, error) {
	var entity urlEntity
	err := u.db.WithContext(ctx).
		Where("short_key = ?", shortKey).
		First(&entity).Error
	if errors.Is(err, ormKit.ErrRecordNotFound) {
		return nil, errors.Wrap(domain.ErrNoData, "get url mapping by short key failed")
	} else if err != nil {
		return nil, errors.Wrap(err, "get url mapping by short key failed")
	}
	return entity.toDomain(), nil
}
