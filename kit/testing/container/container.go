package container

import (
	"context"

	"github.com/pkg/errors"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	"github.com/testcontainers/testcontainers-go"
)

// DBContainer is a database container with a connected client whose schema
// scripts already ran.
type DBContainer struct {
	DB *ormKit.DB

	container testcontainers.Container
}

func (d *DBContainer) Terminate(ctx context.Context) error {
	closeErr := d.DB.Close()
	if err := d.container.Terminate(ctx); err != nil {
		return errors.Wrap(err, "terminate db container failed")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "close db failed")
	}
	return nil
}

func connectDB(ctx context.Context, container testcontainers.Container, useDB ormKit.Option) (*DBContainer, error) {
	db, err := ormKit.CreateDB(useDB)
	if err != nil {
		container.Terminate(ctx)
		return nil, errors.Wrap(err, "connect container db failed")
	}
	return &DBContainer{DB: db, container: container}, nil
}
