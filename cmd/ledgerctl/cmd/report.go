package cmd

import (
	"encoding/json"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/contractpay/settlement-backend/internal/ledger/service"
	"github.com/spf13/cobra"
)

func (c *cli) reportCmd() *cobra.Command {
	var start, end string
	var limit int

	report := &cobra.Command{
		Use:   "report",
		Short: "Run the admin reports over a [start, end) window",
	}
	report.PersistentFlags().StringVar(&start, "start", "", "window start, MM-DD-YYYY")
	report.PersistentFlags().StringVar(&end, "end", "", "window end (exclusive), MM-DD-YYYY")

	report.AddCommand(&cobra.Command{
		Use:   "best-profession",
		Short: "Profession with the highest paid volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := domain.ParseWindow(start, end)
			if err != nil {
				return err
			}

			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			best, err := service.NewReportingEngine(repository.NewLedgerRepository(db)).BestProfession(cmd.Context(), w)
			if err != nil {
				return err
			}
			return printJSON(cmd, best)
		},
	})

	clients := &cobra.Command{
		Use:   "best-clients",
		Short: "Clients with the highest paid volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := domain.ParseWindow(start, end)
			if err != nil {
				return err
			}

			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			top, err := service.NewReportingEngine(repository.NewLedgerRepository(db)).TopClients(cmd.Context(), w, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, top)
		},
	}
	clients.Flags().IntVar(&limit, "limit", domain.DefaultTopClientsLimit, "number of clients")
	report.AddCommand(clients)

	return report
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
