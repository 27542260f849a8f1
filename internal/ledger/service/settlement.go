package service

import (
	"context"
	"errors"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"go.uber.org/zap"
)

// Clock supplies payment timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// SettlementEngine pays jobs by moving the price from client to contractor.
type SettlementEngine struct {
	accounts repository.AccountStore
	txRunner repository.TxRunner
	clock    Clock
	logger   *zap.Logger
}

// NewSettlementEngine creates a new SettlementEngine
func NewSettlementEngine(accounts repository.AccountStore, txRunner repository.TxRunner, clock Clock, logger *zap.Logger) *SettlementEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementEngine{
		accounts: accounts,
		txRunner: txRunner,
		clock:    clock,
		logger:   logger,
	}
}

// PayJob settles jobID on behalf of callerID.
//
// Preconditions are checked in order: the caller must be a client, the job
// must be unpaid and belong to one of the caller's contracts, and the caller's
// balance must cover the price. The debit, the credit and the paid flag are
// committed together in one transaction. A second payment of the same job,
// concurrent or not, observes the job as paid and fails with ErrJobNotFound.
func (e *SettlementEngine) PayJob(ctx context.Context, callerID, jobID int64) (*domain.SettlementResult, error) {
	caller, err := loadClient(ctx, e.accounts, callerID)
	if err != nil {
		return nil, err
	}

	var result *domain.SettlementResult
	err = e.txRunner.WithinTx(ctx, func(tx repository.SettlementTx) error {
		job, err := tx.LockPayableJob(ctx, jobID, caller.ID)
		if err != nil {
			return err
		}

		client, err := tx.LockAccount(ctx, caller.ID)
		if err != nil {
			return err
		}

		if client.Balance.LessThan(job.Price) {
			return &domain.InsufficientFundsError{
				JobID:        job.JobID,
				ContractID:   job.ContractID,
				ContractorID: job.ContractorID,
				ClientID:     client.ID,
				Price:        job.Price,
				Balance:      client.Balance,
			}
		}

		if err := tx.DecrementBalance(ctx, client.ID, job.Price); err != nil {
			return err
		}
		if _, err := tx.IncrementBalance(ctx, job.ContractorID, job.Price); err != nil {
			return err
		}
		if err := tx.MarkJobPaid(ctx, job.JobID, e.clock.Now()); err != nil {
			return err
		}

		result = &domain.SettlementResult{
			JobID:        job.JobID,
			ContractID:   job.ContractID,
			ContractorID: job.ContractorID,
			ClientID:     client.ID,
			Amount:       job.Price,
			Message:      "Paid Successfully.",
		}
		return nil
	})

	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindJobNotFound, domain.KindInsufficientFunds:
			e.logger.Info("settlement rejected",
				zap.Int64("client_id", callerID),
				zap.Int64("job_id", jobID),
				zap.String("kind", string(domain.KindOf(err))),
			)
			return nil, err
		}

		failed := &domain.TransactionFailedError{Op: "pay job", Err: err, Retryable: repository.IsTransient(err)}
		e.logger.Error("settlement rolled back",
			zap.Int64("client_id", callerID),
			zap.Int64("job_id", jobID),
			zap.Bool("retryable", failed.Retryable),
			zap.Error(err),
		)
		return nil, failed
	}

	e.logger.Info("settlement committed",
		zap.Int64("job_id", result.JobID),
		zap.Int64("contract_id", result.ContractID),
		zap.Int64("client_id", result.ClientID),
		zap.Int64("contractor_id", result.ContractorID),
		zap.String("amount", result.Amount.StringFixed(2)),
	)
	return result, nil
}

// loadClient resolves callerID and requires the client role. Unknown callers
// are reported as unauthorized.
func loadClient(ctx context.Context, accounts repository.AccountStore, callerID int64) (*domain.Account, error) {
	caller, err := accounts.GetAccount(ctx, callerID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, &domain.TransactionFailedError{Op: "load caller", Err: err, Retryable: repository.IsTransient(err)}
	}
	if !caller.IsClient() {
		return nil, domain.ErrUnauthorized
	}
	return caller, nil
}
