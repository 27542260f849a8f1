package service

import (
	"context"
	"testing"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractQueries(t *testing.T) {
	s := newMemStore()
	s.addAccount(1, domain.RoleClient, "Wizard", "0")
	s.addAccount(2, domain.RoleContractor, "Carpenter", "0")
	s.addAccount(3, domain.RoleClient, "Pilot", "0")
	s.addContract(10, 1, 2, domain.ContractInProgress)
	s.addContract(11, 1, 2, domain.ContractTerminated)
	s.addContract(12, 1, 2, domain.ContractNew)
	s.addJob(100, 10, "10", false, day(1))
	s.addJob(101, 11, "10", false, day(1))
	s.addJob(102, 12, "10", false, day(1))
	s.addJob(103, 10, "10", true, day(1))

	q := NewContractQueries(s)
	client := &domain.Account{ID: 1, Role: domain.RoleClient}
	contractor := &domain.Account{ID: 2, Role: domain.RoleContractor}
	stranger := &domain.Account{ID: 3, Role: domain.RoleClient}
	ctx := context.Background()

	t.Run("get contract as either party", func(t *testing.T) {
		c, err := q.GetContract(ctx, client, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), c.ID)

		c, err = q.GetContract(ctx, contractor, 11)
		require.NoError(t, err)
		assert.Equal(t, int64(11), c.ID)
	})

	t.Run("get contract as stranger", func(t *testing.T) {
		_, err := q.GetContract(ctx, stranger, 10)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})

	t.Run("active contracts exclude terminated", func(t *testing.T) {
		contracts, err := q.ListActiveContracts(ctx, client)
		require.NoError(t, err)
		require.Len(t, contracts, 2)
		assert.Equal(t, int64(10), contracts[0].ID)
		assert.Equal(t, int64(12), contracts[1].ID)
	})

	t.Run("unpaid jobs only on in-progress contracts", func(t *testing.T) {
		jobs, err := q.ListUnpaidJobs(ctx, contractor)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, int64(100), jobs[0].ID)
	})

	t.Run("empty listings", func(t *testing.T) {
		_, err := q.ListActiveContracts(ctx, stranger)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)

		_, err = q.ListUnpaidJobs(ctx, stranger)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("nil caller", func(t *testing.T) {
		_, err := q.GetContract(ctx, nil, 10)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = q.ListActiveContracts(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = q.ListUnpaidJobs(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
