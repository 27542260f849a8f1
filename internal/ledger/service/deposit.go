package service

import (
	"context"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// depositQuota is the share of the outstanding unpaid total a single deposit may cover.
var depositQuota = decimal.NewFromInt(4)

// DepositPolicy credits client balances within the deposit quota.
type DepositPolicy struct {
	accounts repository.AccountStore
	jobs     repository.JobLedger
	logger   *zap.Logger
}

// NewDepositPolicy creates a new DepositPolicy
func NewDepositPolicy(accounts repository.AccountStore, jobs repository.JobLedger, logger *zap.Logger) *DepositPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepositPolicy{accounts: accounts, jobs: jobs, logger: logger}
}

// Deposit credits amount to the caller after checking it against 25% of the
// caller's unpaid total. The total is recomputed on every call.
func (p *DepositPolicy) Deposit(ctx context.Context, callerID int64, amount decimal.Decimal) (*domain.DepositResult, error) {
	caller, err := loadClient(ctx, p.accounts, callerID)
	if err != nil {
		return nil, err
	}

	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, domain.ErrInvalidAmount
	}

	totalUnpaid, err := p.jobs.SumUnpaidForClient(ctx, caller.ID)
	if err != nil {
		return nil, &domain.TransactionFailedError{Op: "sum unpaid jobs", Err: err, Retryable: repository.IsTransient(err)}
	}
	if !totalUnpaid.IsPositive() {
		return nil, domain.ErrNoOutstandingBalance
	}

	limit := totalUnpaid.Div(depositQuota)
	if amount.GreaterThan(limit) {
		p.logger.Info("deposit over quota",
			zap.Int64("client_id", caller.ID),
			zap.String("amount", amount.String()),
			zap.String("limit", limit.String()),
		)
		return nil, &domain.DepositLimitExceededError{Amount: amount, TotalUnpaid: totalUnpaid, Cap: limit}
	}

	newBalance, err := p.accounts.IncrementBalance(ctx, caller.ID, amount)
	if err != nil {
		p.logger.Error("deposit failed", zap.Int64("client_id", caller.ID), zap.Error(err))
		return nil, &domain.TransactionFailedError{Op: "deposit", Err: err, Retryable: repository.IsTransient(err)}
	}

	p.logger.Info("deposit credited",
		zap.Int64("client_id", caller.ID),
		zap.String("amount", amount.String()),
		zap.String("balance", newBalance.String()),
	)

	return &domain.DepositResult{
		ClientID:    caller.ID,
		Amount:      amount,
		OldBalance:  newBalance.Sub(amount),
		NewBalance:  newBalance,
		TotalUnpaid: totalUnpaid,
		Message:     "Amount deposited!",
	}, nil
}
