package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// AccountStore holds account balances and identities.
type AccountStore interface {
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)

	// IncrementBalance adds amount in a single atomic update and returns the new balance.
	IncrementBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// JobLedger holds job and contract records and the aggregates computed over them.
type JobLedger interface {
	SumUnpaidForClient(ctx context.Context, clientID int64) (decimal.Decimal, error)

	// PaidByProfession groups paid jobs created inside w by contractor profession.
	// Groups are returned in discovery order (earliest job id first).
	PaidByProfession(ctx context.Context, w domain.Window) ([]domain.ProfessionTotal, error)

	// PaidByClient groups paid jobs created inside w by client, ordered by
	// descending amount with discovery order breaking ties.
	PaidByClient(ctx context.Context, w domain.Window, limit int) ([]domain.ClientTotal, error)

	GetContractForAccount(ctx context.Context, contractID int64, account *domain.Account) (*domain.Contract, error)
	ListActiveContracts(ctx context.Context, account *domain.Account) ([]domain.Contract, error)
	ListUnpaidJobs(ctx context.Context, account *domain.Account) ([]domain.Job, error)
}

// SettlementTx is the set of operations available inside one settlement transaction.
// Reads take row locks so that concurrent settlements of the same job serialize.
type SettlementTx interface {
	LockPayableJob(ctx context.Context, jobID, clientID int64) (*domain.PayableJob, error)
	LockAccount(ctx context.Context, id int64) (*domain.Account, error)
	DecrementBalance(ctx context.Context, id int64, amount decimal.Decimal) error
	IncrementBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
	MarkJobPaid(ctx context.Context, jobID int64, paidAt time.Time) error
}

// TxRunner runs fn inside a transaction. The transaction commits only if fn
// returns nil; any error or panic rolls it back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx SettlementTx) error) error
}

// Executor is satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// LedgerRepository handles PostgreSQL operations for accounts, contracts and jobs
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var (
	_ AccountStore = (*LedgerRepository)(nil)
	_ JobLedger    = (*LedgerRepository)(nil)
	_ TxRunner     = (*LedgerRepository)(nil)
	_ SettlementTx = (*settlementTx)(nil)
)
