package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/superj80820/url-shortener/urlshortener/config"
	ormRepo "github.com/superj80820/url-shortener/urlshortener/repository/orm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the url mapping table on the configured sql database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DBType == config.DBTypeMemory {
			return errors.New("memory db type needs no migration")
		}

		db, err := createDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := ormRepo.Migrate(cmd.Context(), db); err != nil {
			return errors.Wrap(err, "migrate db failed")
		}
		cmd.Printf("migrated %s database\n", cfg.DBType)
		return nil
	},
}
