package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/contractpay/settlement-backend/internal/ledger/service"
	"github.com/contractpay/settlement-backend/internal/seed"
	"github.com/contractpay/settlement-backend/internal/storage/postgres"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestPostgres connects to TEST_DB_DSN, or to the TEST_DB_* variables,
// and skips the test when neither is set. The schema is migrated and emptied.
func setupTestPostgres(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		host := os.Getenv("TEST_DB_HOST")
		port := os.Getenv("TEST_DB_PORT")
		user := os.Getenv("TEST_DB_USER")
		password := os.Getenv("TEST_DB_PASSWORD")
		dbname := os.Getenv("TEST_DB_NAME")
		if host == "" || port == "" || user == "" || dbname == "" {
			t.Skip("TEST_DB_DSN or TEST_DB_* environment variables not set, skipping PostgreSQL integration test")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.Migrate(db))
	_, err = db.Exec(`TRUNCATE jobs, contracts, profiles RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func seedLedger(t *testing.T, db *sql.DB) {
	paidAt := time.Date(2020, 8, 15, 12, 0, 0, 0, time.UTC)
	f := &seed.Fixture{
		Profiles: []seed.Profile{
			{ID: 1, FirstName: "Harry", LastName: "Potter", Profession: "Wizard", Type: "client", Balance: "100"},
			{ID: 2, FirstName: "Linus", LastName: "Torvalds", Profession: "Programmer", Type: "contractor", Balance: "10"},
		},
		Contracts: []seed.Contract{{ID: 1, Terms: "terms", Status: "in_progress", ClientID: 1, ContractorID: 2}},
		Jobs: []seed.Job{
			{ID: 1, ContractID: 1, Description: "work", Price: "60"},
			{ID: 2, ContractID: 1, Description: "work", Price: "50"},
			{ID: 3, ContractID: 1, Description: "work", Price: "40", Paid: true, PaymentDate: &paidAt, CreatedAt: &paidAt},
		},
	}
	require.NoError(t, f.Validate())
	require.NoError(t, seed.Apply(context.Background(), db, f))
}

func TestPostgres_ConcurrentPaymentsSettleOnce(t *testing.T) {
	db := setupTestPostgres(t)
	seedLedger(t, db)

	repo := repository.NewLedgerRepository(db)
	engine := service.NewSettlementEngine(repo, repo, nil, nil)

	const workers = 8
	var wg sync.WaitGroup
	kinds := make([]domain.Kind, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := engine.PayJob(context.Background(), 1, 1)
			kinds[i] = domain.KindOf(err)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, k := range kinds {
		if k == domain.KindOK {
			ok++
			continue
		}
		assert.Equal(t, domain.KindJobNotFound, k)
	}
	assert.Equal(t, 1, ok)

	client, err := repo.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	contractor, err := repo.GetAccount(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, client.Balance.Equal(decimal.NewFromInt(40)))
	assert.True(t, contractor.Balance.Equal(decimal.NewFromInt(70)))

	_, err = engine.PayJob(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestPostgres_DepositAndReports(t *testing.T) {
	db := setupTestPostgres(t)
	seedLedger(t, db)

	repo := repository.NewLedgerRepository(db)
	policy := service.NewDepositPolicy(repo, repo, nil)

	// Unpaid total is 110, so the cap is 27.5.
	_, err := policy.Deposit(context.Background(), 1, decimal.RequireFromString("27.51"))
	assert.ErrorIs(t, err, domain.ErrDepositLimitExceeded)
	res, err := policy.Deposit(context.Background(), 1, decimal.RequireFromString("27.50"))
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(decimal.RequireFromString("127.5")))

	reports := service.NewReportingEngine(repo)
	w, err := domain.ParseWindow("08-01-2020", "08-31-2020")
	require.NoError(t, err)

	best, err := reports.BestProfession(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, "Programmer", best.Profession)
	assert.True(t, best.PaidAmount.Equal(decimal.NewFromInt(40)))

	top, err := reports.TopClients(context.Background(), w, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(1), top[0].ClientID)
}
