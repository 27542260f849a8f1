package service

import (
	"context"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
)

// ContractQueries exposes the caller-scoped contract and job listings.
type ContractQueries struct {
	jobs repository.JobLedger
}

func NewContractQueries(jobs repository.JobLedger) *ContractQueries {
	return &ContractQueries{jobs: jobs}
}

// GetContract returns the contract if caller is one of its parties.
func (q *ContractQueries) GetContract(ctx context.Context, caller *domain.Account, contractID int64) (*domain.Contract, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	return q.jobs.GetContractForAccount(ctx, contractID, caller)
}

func (q *ContractQueries) ListActiveContracts(ctx context.Context, caller *domain.Account) ([]domain.Contract, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	contracts, err := q.jobs.ListActiveContracts(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, domain.ErrContractNotFound
	}
	return contracts, nil
}

func (q *ContractQueries) ListUnpaidJobs(ctx context.Context, caller *domain.Account) ([]domain.Job, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	jobs, err := q.jobs.ListUnpaidJobs(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, domain.ErrJobNotFound
	}
	return jobs, nil
}
