package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	redisKit "github.com/superj80820/url-shortener/kit/redis"
	"github.com/superj80820/url-shortener/kit/uniqueid"
	"github.com/superj80820/url-shortener/urlshortener/config"
	"github.com/superj80820/url-shortener/urlshortener/encoder"
	memoryCache "github.com/superj80820/url-shortener/urlshortener/repository/cache/memory"
	redisCache "github.com/superj80820/url-shortener/urlshortener/repository/cache/redis"
	memoryRepo "github.com/superj80820/url-shortener/urlshortener/repository/memory"
	ormRepo "github.com/superj80820/url-shortener/urlshortener/repository/orm"
	"github.com/superj80820/url-shortener/urlshortener/usecase"
	"github.com/superj80820/url-shortener/urlshortener/validator"
)

const memoryCacheCleanupInterval = 10 * time.Minute

type closeFunc func() error

type application struct {
	urlUseCase  domain.URLUseCase
	idGenerator *uniqueid.Generator
	closers     []closeFunc
}

func (a *application) Close(logger *loggerKit.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close resource failed", loggerKit.Error(err))
		}
	}
}

func createLogger(cfg *config.Config) (*loggerKit.Logger, error) {
	logLevel := loggerKit.InfoLevel
	if cfg.IsDevelopment() {
		logLevel = loggerKit.DebugLevel
	}
	logger, err := loggerKit.NewLogger(cfg.LogPath, logLevel, loggerKit.WithRotateLog(100, 3, 28))
	if err != nil {
		return nil, errors.Wrap(err, "create logger failed")
	}
	return logger, nil
}

func createDB(cfg *config.Config) (*ormKit.DB, error) {
	var useDB ormKit.Option
	options := []ormKit.Option{}
	switch cfg.DBType {
	case config.DBTypeMySQL:
		useDB = ormKit.UseMySQL(cfg.DBDSN)
	case config.DBTypePostgres:
		useDB = ormKit.UsePostgres(cfg.DBDSN)
	case config.DBTypeSQLite:
		useDB = ormKit.UseSQLite(cfg.DBDSN)
		options = append(options, ormKit.WithMaxConns(1, 1))
	default:
		return nil, errors.Errorf("db type has no sql backend: %s", cfg.DBType)
	}
	db, err := ormKit.CreateDB(useDB, options...)
	if err != nil {
		return nil, errors.Wrap(err, "create db failed")
	}
	return db, nil
}

func createIDGenerator(cfg *config.Config) (*uniqueid.Generator, error) {
	startTime, err := cfg.StartTime()
	if err != nil {
		return nil, err
	}
	options := []uniqueid.Option{uniqueid.WithStartTime(startTime)}
	if cfg.MachineID == config.MachineIDFromPrivateIP {
		options = append(options, uniqueid.WithMachineIDFunc(uniqueid.PrivateIPv4MachineID))
	} else {
		options = append(options, uniqueid.WithMachineID(cfg.MachineID))
	}
	idGenerator, err := uniqueid.New(options...)
	if err != nil {
		return nil, errors.Wrap(err, "create id generator failed")
	}
	return idGenerator, nil
}

// createApplication wires the use case over the configured store and cache.
// SQL stores are migrated first when migrate is set.
func createApplication(ctx context.Context, cfg *config.Config, logger *loggerKit.Logger, migrate bool) (*application, error) {
	app := new(application)

	var urlRepo domain.URLRepo
	if cfg.DBType == config.DBTypeMemory {
		urlRepo = memoryRepo.CreateURLRepo()
	} else {
		db, err := createDB(cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
		if migrate {
			if err := ormRepo.Migrate(ctx, db); err != nil {
				app.Close(logger)
				return nil, errors.Wrap(err, "migrate db failed")
			}
		}
		urlRepo = ormRepo.CreateURLRepo(db)
	}

	var urlCache domain.URLCache
	if cfg.RedisURI != "" {
		cache, err := redisKit.CreateCache(cfg.RedisURI, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			app.Close(logger)
			return nil, errors.Wrap(err, "create redis cache failed")
		}
		app.closers = append(app.closers, cache.Close)
		urlCache = redisCache.CreateURLCache(cache, cfg.CacheTTL)
	} else {
		urlCache = memoryCache.CreateURLCache(cfg.CacheTTL, memoryCacheCleanupInterval)
	}

	idGenerator, err := createIDGenerator(cfg)
	if err != nil {
		app.Close(logger)
		return nil, err
	}
	keyEncoder, err := encoder.CreateBase62Encoder(cfg.KeyLength)
	if err != nil {
		app.Close(logger)
		return nil, errors.Wrap(err, "create key encoder failed")
	}

	urlUseCase, err := usecase.CreateURLUseCase(
		urlRepo,
		urlCache,
		idGenerator,
		keyEncoder,
		validator.CreateURLValidator(),
		cfg.Domain,
		logger,
	)
	if err != nil {
		app.Close(logger)
		return nil, errors.Wrap(err, "create url use case failed")
	}

	app.urlUseCase = urlUseCase
	app.idGenerator = idGenerator
	return app, nil
}
