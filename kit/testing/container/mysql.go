package container

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

const (
	mysqlDBName   = "url_shortener"
	mysqlUser     = "root"
	mysqlPassword = "password"
)

// RunMySQL starts mysql 8 and runs schemaPaths at init.
func RunMySQL(ctx context.Context, schemaPaths ...string) (*DBContainer, error) {
	container, err := mysql.RunContainer(ctx,
		testcontainers.WithImage("mysql:8"),
		mysql.WithDatabase(mysqlDBName),
		mysql.WithUsername(mysqlUser),
		mysql.WithPassword(mysqlPassword),
		mysql.WithScripts(schemaPaths...),
	)
	if err != nil {
		return nil, errors.Wrap(err, "run mysql container failed")
	}
	address, err := container.PortEndpoint(ctx, "3306/tcp", "")
	if err != nil {
		container.Terminate(ctx)
		return nil, errors.Wrap(err, "get mysql endpoint failed")
	}

	return connectDB(ctx, container, ormKit.UseMySQL(fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		mysqlUser, mysqlPassword, address, mysqlDBName,
	)))
}
