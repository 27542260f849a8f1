package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// WithinTx begins a transaction, hands it to fn, and commits if fn succeeds.
// The deferred rollback is a no-op after a successful commit.
func (r *LedgerRepository) WithinTx(ctx context.Context, fn func(tx SettlementTx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("transaction aborted: %v", p)
			return
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&settlementTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type settlementTx struct {
	tx *sql.Tx
}

// LockPayableJob locks the job row only when it is unpaid and owned by clientID.
// Absent, foreign and already paid jobs are indistinguishable to the caller.
func (s *settlementTx) LockPayableJob(ctx context.Context, jobID, clientID int64) (*domain.PayableJob, error) {
	query := `
		SELECT j.id, j.contract_id, c.client_id, c.contractor_id, j.price
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = $1 AND c.client_id = $2 AND j.paid = FALSE
		FOR UPDATE OF j
	`

	var job domain.PayableJob
	err := s.tx.QueryRowContext(ctx, query, jobID, clientID).Scan(
		&job.JobID,
		&job.ContractID,
		&job.ClientID,
		&job.ContractorID,
		&job.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock job %d: %w", jobID, err)
	}

	return &job, nil
}

func (s *settlementTx) LockAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return scanAccount(s.tx.QueryRowContext(ctx, selectAccount+" FOR UPDATE", id))
}

func (s *settlementTx) DecrementBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	return decrementBalance(ctx, s.tx, id, amount)
}

func (s *settlementTx) IncrementBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	return incrementBalance(ctx, s.tx, id, amount)
}

// MarkJobPaid flips the paid flag with a compare-and-set on paid = FALSE.
func (s *settlementTx) MarkJobPaid(ctx context.Context, jobID int64, paidAt time.Time) error {
	query := `
		UPDATE jobs
		SET paid = TRUE, payment_date = $2
		WHERE id = $1 AND paid = FALSE
	`

	res, err := s.tx.ExecContext(ctx, query, jobID, paidAt)
	if err != nil {
		return fmt.Errorf("failed to mark job %d paid: %w", jobID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark job %d paid: %w", jobID, err)
	}
	if n != 1 {
		return domain.ErrJobNotFound
	}

	return nil
}

// IsTransient reports whether err is a PostgreSQL failure that a caller may
// retry as-is: serialization failures, deadlocks and lost connections.
func IsTransient(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return errors.Is(err, sql.ErrConnDone)
	}

	switch pqErr.Code.Class() {
	case "40", "08":
		return true
	}
	return false
}
