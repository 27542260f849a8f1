package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
)

// partyColumn picks the contract column that identifies the account's side.
func partyColumn(account *domain.Account) string {
	if account.IsClient() {
		return "client_id"
	}
	return "contractor_id"
}

// GetContractForAccount returns the contract only when the account is one of its parties.
func (r *LedgerRepository) GetContractForAccount(ctx context.Context, contractID int64, account *domain.Account) (*domain.Contract, error) {
	query := fmt.Sprintf(`
		SELECT id, terms, status, client_id, contractor_id, created_at, updated_at
		FROM contracts
		WHERE id = $1 AND %s = $2
	`, partyColumn(account))

	var c domain.Contract
	var status string
	err := r.db.QueryRowContext(ctx, query, contractID, account.ID).Scan(
		&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	c.Status = domain.ContractStatus(status)
	return &c, nil
}

func (r *LedgerRepository) ListActiveContracts(ctx context.Context, account *domain.Account) ([]domain.Contract, error) {
	query := fmt.Sprintf(`
		SELECT id, terms, status, client_id, contractor_id, created_at, updated_at
		FROM contracts
		WHERE %s = $1 AND status <> $2
		ORDER BY id ASC
	`, partyColumn(account))

	rows, err := r.db.QueryContext(ctx, query, account.ID, string(domain.ContractTerminated))
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		var c domain.Contract
		var status string
		if err := rows.Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		c.Status = domain.ContractStatus(status)
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	return contracts, nil
}

// ListUnpaidJobs returns unpaid jobs on the account's in-progress contracts.
func (r *LedgerRepository) ListUnpaidJobs(ctx context.Context, account *domain.Account) ([]domain.Job, error) {
	query := fmt.Sprintf(`
		SELECT j.id, j.contract_id, j.description, j.price, j.paid, j.payment_date, j.created_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = FALSE AND c.%s = $1 AND c.status = $2
		ORDER BY j.id ASC
	`, partyColumn(account))

	rows, err := r.db.QueryContext(ctx, query, account.ID, string(domain.ContractInProgress))
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		var paymentDate sql.NullTime
		if err := rows.Scan(&j.ID, &j.ContractID, &j.Description, &j.Price, &j.Paid, &paymentDate, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if paymentDate.Valid {
			j.PaymentDate = &paymentDate.Time
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list unpaid jobs: %w", err)
	}

	return jobs, nil
}
