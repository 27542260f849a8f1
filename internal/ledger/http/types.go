package http

import (
	"context"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Payer interface {
	PayJob(ctx context.Context, callerID, jobID int64) (*domain.SettlementResult, error)
}

type Depositor interface {
	Deposit(ctx context.Context, callerID int64, amount decimal.Decimal) (*domain.DepositResult, error)
}

type ContractReader interface {
	GetContract(ctx context.Context, caller *domain.Account, contractID int64) (*domain.Contract, error)
	ListActiveContracts(ctx context.Context, caller *domain.Account) ([]domain.Contract, error)
	ListUnpaidJobs(ctx context.Context, caller *domain.Account) ([]domain.Job, error)
}

// Invalidator drops cached reports once a payment changes paid volume.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler handles HTTP requests for the ledger
type Handler struct {
	payer       Payer
	depositor   Depositor
	reports     service.Reports
	contracts   ContractReader
	invalidator Invalidator
	logger      *zap.Logger
}

type Deps struct {
	Payer       Payer
	Depositor   Depositor
	Reports     service.Reports
	Contracts   ContractReader
	Invalidator Invalidator // optional
	Logger      *zap.Logger
}

// New creates a new Handler
func New(dep Deps) *Handler {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		payer:       dep.Payer,
		depositor:   dep.Depositor,
		reports:     dep.Reports,
		contracts:   dep.Contracts,
		invalidator: dep.Invalidator,
		logger:      logger,
	}
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type bestProfessionResponse struct {
	Start          string                  `json:"start"`
	End            string                  `json:"end"`
	BestProfession *domain.ProfessionTotal `json:"best_profession"`
}

type bestClientsResponse struct {
	Start            string               `json:"start"`
	End              string               `json:"end"`
	TopPayingClients []domain.ClientTotal `json:"top_paying_clients"`
}
