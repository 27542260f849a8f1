package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind is the stable name of a failure outcome.
type Kind string

const (
	KindOK                   Kind = "ok"
	KindUnauthorized         Kind = "Unauthorized"
	KindJobNotFound          Kind = "JobNotFound"
	KindContractNotFound     Kind = "ContractNotFound"
	KindInsufficientFunds    Kind = "InsufficientFunds"
	KindTransactionFailed    Kind = "TransactionFailed"
	KindInvalidAmount        Kind = "InvalidAmount"
	KindNoOutstandingBalance Kind = "NoOutstandingBalance"
	KindDepositLimitExceeded Kind = "DepositLimitExceeded"
	KindInvalidRange         Kind = "InvalidRange"
	KindNoData               Kind = "NoData"
	KindInternal             Kind = "Internal"
)

var (
	ErrUnauthorized         = errors.New("only clients are allowed to perform this operation")
	ErrJobNotFound          = errors.New("job not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTransactionFailed    = errors.New("transaction failed")
	ErrInvalidAmount        = errors.New("deposit amount must be a positive value")
	ErrNoOutstandingBalance = errors.New("no unpaid jobs")
	ErrDepositLimitExceeded = errors.New("can't deposit more than 25% of your unpaid balance")
	ErrInvalidRange         = errors.New("start date must be before end date")
	ErrNoData               = errors.New("no jobs found under this date range")

	// ErrAccountNotFound is returned by the store; the engine reports it as Unauthorized.
	ErrAccountNotFound = errors.New("account not found")
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUnauthorized, KindUnauthorized},
	{ErrJobNotFound, KindJobNotFound},
	{ErrContractNotFound, KindContractNotFound},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrTransactionFailed, KindTransactionFailed},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrNoOutstandingBalance, KindNoOutstandingBalance},
	{ErrDepositLimitExceeded, KindDepositLimitExceeded},
	{ErrInvalidRange, KindInvalidRange},
	{ErrNoData, KindNoData},
}

// KindOf classifies err. A nil error is KindOK; anything unrecognised is KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// InsufficientFundsError carries the shortfall context of a rejected payment.
type InsufficientFundsError struct {
	JobID        int64
	ContractID   int64
	ContractorID int64
	ClientID     int64
	Price        decimal.Decimal
	Balance      decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: job %d costs %s, balance is %s", e.JobID, e.Price, e.Balance)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// DepositLimitExceededError reports the unpaid total and the cap derived from it.
type DepositLimitExceededError struct {
	Amount      decimal.Decimal
	TotalUnpaid decimal.Decimal
	Cap         decimal.Decimal
}

func (e *DepositLimitExceededError) Error() string {
	return fmt.Sprintf("deposit of %s exceeds limit %s (25%% of unpaid %s)", e.Amount, e.Cap, e.TotalUnpaid)
}

func (e *DepositLimitExceededError) Unwrap() error { return ErrDepositLimitExceeded }

// TransactionFailedError wraps a store failure raised while committing a settlement.
// No partial state is visible when it is returned.
type TransactionFailedError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionFailedError) Unwrap() []error { return []error{ErrTransactionFailed, e.Err} }
