package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

const selectAccount = `
		SELECT id, first_name, last_name, profession, type, balance
		FROM profiles
		WHERE id = $1
	`

// GetAccount retrieves an account by ID
func (r *LedgerRepository) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount, id))
}

// IncrementBalance credits an account outside any settlement transaction.
func (r *LedgerRepository) IncrementBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	return incrementBalance(ctx, r.db, id, amount)
}

func incrementBalance(ctx context.Context, ex Executor, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE profiles
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`

	var balance decimal.Decimal
	err := ex.QueryRowContext(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to increment balance of account %d: %w", id, err)
	}

	return balance, nil
}

func decrementBalance(ctx context.Context, ex Executor, id int64, amount decimal.Decimal) error {
	// balance >= $2 keeps the account from going negative.
	query := `
		UPDATE profiles
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
	`

	res, err := ex.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to decrement balance of account %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to decrement balance of account %d: %w", id, err)
	}
	if n != 1 {
		return fmt.Errorf("failed to decrement balance of account %d: balance guard rejected update", id)
	}

	return nil
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	var role string

	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Profession, &role, &a.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	a.Role = domain.Role(role)
	return &a, nil
}
