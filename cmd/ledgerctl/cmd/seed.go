package cmd

import (
	"github.com/contractpay/settlement-backend/internal/seed"
	"github.com/spf13/cobra"
)

func (c *cli) seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load profiles, contracts and jobs from a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.Load(file)
			if err != nil {
				return err
			}

			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := seed.Apply(cmd.Context(), db, fixture); err != nil {
				return err
			}
			cmd.Printf("Seeded %d profiles, %d contracts, %d jobs\n",
				len(fixture.Profiles), len(fixture.Contracts), len(fixture.Jobs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "internal/seed/fixtures/default.yaml", "fixture file")
	return cmd
}
