package cmd

import (
	"fmt"
	"strconv"

	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/contractpay/settlement-backend/internal/ledger/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (c *cli) payCmd() *cobra.Command {
	var profileID int64

	cmd := &cobra.Command{
		Use:   "pay [job_id]",
		Short: "Pay a job on behalf of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewLedgerRepository(db)
			engine := service.NewSettlementEngine(repo, repo, service.SystemClock{}, c.logger())
			result, err := engine.PayJob(cmd.Context(), profileID, jobID)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&profileID, "profile", 0, "paying client profile id")
	cmd.MarkFlagRequired("profile")
	return cmd
}

func (c *cli) depositCmd() *cobra.Command {
	var profileID int64

	cmd := &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Credit a client balance within the deposit limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			db, err := c.db(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewLedgerRepository(db)
			result, err := service.NewDepositPolicy(repo, repo, c.logger()).Deposit(cmd.Context(), profileID, amount)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&profileID, "profile", 0, "client profile id")
	cmd.MarkFlagRequired("profile")
	return cmd
}
