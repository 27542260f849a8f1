package bootstrap

import (
	"database/sql"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/cache"
	ledgerhttp "github.com/contractpay/settlement-backend/internal/ledger/http"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/contractpay/settlement-backend/internal/ledger/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ledger groups the wired ledger services.
type Ledger struct {
	Repo       *repository.LedgerRepository
	Settlement *service.SettlementEngine
	Deposits   *service.DepositPolicy
	Contracts  *service.ContractQueries
	Reports    service.Reports
	Cache      *cache.ReportCache // nil without Redis
}

func NewLedger(db *sql.DB, rdb *redis.Client, reportTTL time.Duration, logger *zap.Logger) *Ledger {
	repo := repository.NewLedgerRepository(db)
	engine := service.NewReportingEngine(repo)

	l := &Ledger{
		Repo:       repo,
		Settlement: service.NewSettlementEngine(repo, repo, service.SystemClock{}, logger.Named("settlement")),
		Deposits:   service.NewDepositPolicy(repo, repo, logger.Named("deposit")),
		Contracts:  service.NewContractQueries(repo),
		Reports:    engine,
	}
	if rdb != nil {
		l.Cache = cache.NewReportCache(engine, rdb, reportTTL, logger.Named("report_cache"))
		l.Reports = l.Cache
	}
	return l
}

// Handler builds the HTTP handler for the ledger routes.
func (l *Ledger) Handler(logger *zap.Logger) *ledgerhttp.Handler {
	deps := ledgerhttp.Deps{
		Payer:     l.Settlement,
		Depositor: l.Deposits,
		Reports:   l.Reports,
		Contracts: l.Contracts,
		Logger:    logger,
	}
	if l.Cache != nil {
		deps.Invalidator = l.Cache
	}
	return ledgerhttp.New(deps)
}
