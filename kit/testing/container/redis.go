package container

import (
	"context"

	"github.com/pkg/errors"
	redisKit "github.com/superj80820/url-shortener/kit/redis"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisContainer struct {
	Cache *redisKit.Cache

	container *redis.RedisContainer
}

// RunRedis starts redis 7 and returns a pinged cache client.
func RunRedis(ctx context.Context) (*RedisContainer, error) {
	container, err := redis.RunContainer(ctx, testcontainers.WithImage("docker.io/redis:7"))
	if err != nil {
		return nil, errors.Wrap(err, "run redis container failed")
	}
	address, err := container.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		container.Terminate(ctx)
		return nil, errors.Wrap(err, "get redis endpoint failed")
	}
	cache, err := redisKit.CreateCache(address, "", 0)
	if err != nil {
		container.Terminate(ctx)
		return nil, errors.Wrap(err, "connect container redis failed")
	}
	return &RedisContainer{Cache: cache, container: container}, nil
}

func (r *RedisContainer) Terminate(ctx context.Context) error {
	closeErr := r.Cache.Close()
	if err := r.container.Terminate(ctx); err != nil {
		return errors.Wrap(err, "terminate redis container failed")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "close redis failed")
	}
	return nil
}
