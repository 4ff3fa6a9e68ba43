package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	"github.com/superj80820/url-shortener/kit/code"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	"github.com/superj80820/url-shortener/urlshortener/encoder"
)

type urlUseCase struct {
	urlRepo        domain.URLRepo
	urlCache       domain.URLCache
	idGenerator    domain.IDGenerator
	keyEncoder     domain.KeyEncoder
	urlValidator   domain.URLValidator
	shortURLDomain string
	logger         *loggerKit.Logger
}

// CreateURLUseCase wires the create and resolve flows. urlCache may be nil,
// in which case every resolve reads the store.
func CreateURLUseCase(
	urlRepo domain.URLRepo,
	urlCache domain.URLCache,
	idGenerator domain.IDGenerator,
	keyEncoder domain.KeyEncoder,
	urlValidator domain.URLValidator,
	shortURLDomain string,
	logger *loggerKit.Logger,
) (domain.URLUseCase, error) {
	if urlRepo == nil || idGenerator == nil || keyEncoder == nil || urlValidator == nil || logger == nil {
		return nil, errors.New("create url use case failed, missing dependency")
	}
	if shortURLDomain == "" {
		return nil, errors.New("create url use case failed, empty short url domain")
	}
	if urlCache == nil {
		urlCache = noopURLCache{}
	}
	return &urlUseCase{
		urlRepo:        urlRepo,
		urlCache:       urlCache,
		idGenerator:    idGenerator,
		keyEncoder:     keyEncoder,
		urlValidator:   urlValidator,
		shortURLDomain: strings.TrimRight(shortURLDomain, "/"),
		logger:         logger,
	}, nil
}

func (u *urlUseCase) Create(ctx context.Context, longURL string) (*domain.ShortURL, error) {
	if !u.urlValidator.IsValidURL(longURL) {
		return nil, code.CreateErrorCode(http.StatusBadRequest).
			AddCode(code.InvalidURL).
			AddErrorMetaData(errors.Wrapf(domain.ErrInvalidURL, "url: %s", longURL))
	}

	existingURL, err := u.urlRepo.GetByOriginalURL(ctx, longURL)
	if err == nil {
		return u.toShortURL(existingURL), nil
	} else if !errors.Is(err, domain.ErrNoData) {
		return nil, errors.Wrap(err, "get existing mapping failed")
	}

	id, err := u.idGenerator.NextID()
	if err != nil {
		return nil, errors.Wrap(err, "generate id failed")
	}
	shortKey, err := u.keyEncoder.Encode(id)
	if err != nil {
		return nil, errors.Wrap(err, "encode short key failed")
	}

	insertResult, err := u.urlRepo.Insert(ctx, &domain.URL{
		ID:          id,
		ShortKey:    shortKey,
		OriginalURL: longURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "insert mapping failed")
	}

	switch insertResult.Status {
	case domain.CreatedInsertResultEnum:
		u.logger.Debug("url mapping created", loggerKit.Int64("id", id), loggerKit.String("short-key", shortKey))
		return u.toShortURL(insertResult.URL), nil
	case domain.ConflictInsertResultEnum:
		u.logger.Warn("url mapping conflict, recover from store", loggerKit.Int64("id", id), loggerKit.String("short-key", shortKey))
		return u.recoverFromConflict(ctx, longURL, shortKey)
	default:
		return nil, errors.Errorf("unknown insert result: %s", insertResult.Status)
	}
}

func (u *urlUseCase) recoverFromConflict(ctx context.Context, longURL, shortKey string) (*domain.ShortURL, error) {
	recoveredURL, err := u.urlRepo.GetByOriginalURL(ctx, longURL)
	if errors.Is(err, domain.ErrNoData) {
		u.logger.Error("url mapping conflict without existing row", loggerKit.String("short-key", shortKey), loggerKit.String("url", longURL))
		return nil, code.CreateErrorCode(http.StatusInternalServerError).
			AddCode(code.MappingConflict).
			AddErrorMetaData(errors.Wrapf(domain.ErrFatalInconsistency, "url: %s, short key: %s", longURL, shortKey))
	} else if err != nil {
		return nil, errors.Wrap(err, "get mapping after conflict failed")
	}
	return u.toShortURL(recoveredURL), nil
}

func (u *urlUseCase) Resolve(ctx context.Context, shortKey string) (string, error) {
	if !encoder.IsKeyFormat(shortKey) {
		return "", u.notFoundError(shortKey)
	}

	originalURL, err := getWithCacheAside(ctx, u.urlCache, u.logger, shortKey, func(ctx context.Context) (string, error) {
		url, err := u.urlRepo.GetByShortKey(ctx, shortKey)
		if err != nil {
			return "", err
		}
		return url.OriginalURL, nil
	})
	if errors.Is(err, domain.ErrNoData) {
		return "", u.notFoundError(shortKey)
	} else if err != nil {
		return "", errors.Wrap(err, "resolve short key failed")
	}

	return originalURL, nil
}

func (u *urlUseCase) notFoundError(shortKey string) error {
	return code.CreateErrorCode(http.StatusNotFound).
		AddCode(code.URLNotFound, shortKey).
		AddErrorMetaData(errors.Wrapf(domain.ErrURLNotFound, "short key: %s", shortKey))
}

func (u *urlUseCase) toShortURL(url *domain.URL) *domain.ShortURL {
	return &domain.ShortURL{
		ShortKey: url.ShortKey,
		ShortURL: u.shortURLDomain + "/" + url.ShortKey,
	}
}
