package cmd

import (
	"github.com/contractpay/settlement-backend/internal/storage/postgres"
	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert schema migrations",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(db); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Rollback(db); err != nil {
				return err
			}
			cmd.Println("Rolled back one migration")
			return nil
		},
	})

	return migrate
}
