package main

import (
	"github.com/spf13/cobra"

	logicv1 "github.com/duynhne/account-service/internal/logic/v1"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the accounts table and seed the demo user when enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, err := openRepository(ctx, cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("Accounts schema migrated")

		return seedDemoUser(ctx, cfg, logicv1.NewAccountService(repo), logger)
	},
}
