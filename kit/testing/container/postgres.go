package container

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresDBName   = "url_shortener"
	postgresUser     = "user"
	postgresPassword = "password"
)

// RunPostgres starts postgres 15 and runs schemaPaths from the init directory.
func RunPostgres(ctx context.Context, schemaPaths ...string) (*DBContainer, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		postgres.WithInitScripts(schemaPaths...),
		postgres.WithDatabase(postgresDBName),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "run postgres container failed")
	}
	address, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		container.Terminate(ctx)
		return nil, errors.Wrap(err, "get postgres endpoint failed")
	}

	return connectDB(ctx, container, ormKit.UsePostgres(fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable&TimeZone=UTC",
		postgresUser, postgresPassword, address, postgresDBName,
	)))
}
