package main

import (
	"errors"

	"github.com/OFFIS-RIT/kiwi-ke/internal/config"
	storepgx "github.com/OFFIS-RIT/kiwi-ke/pkg/store/pgx"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema for persisted extraction results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Read(configPath)
			if err != nil {
				return err
			}
			initLogger(cfg)

			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}
			return storepgx.Migrate(cfg.DatabaseURL)
		},
	}
}
