package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE:  runMigrate,
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Info("running migrations", "driver", cfg.Storage.Driver)

	s, err := openStore(ctx, cfg.Storage.Driver, &cfg.Storage)
	if err != nil {
		return err
	}

	log.Info("migrations complete")
	return s.Close()
}
