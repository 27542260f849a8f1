package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory ledger. Transactions run one at a time against a
// copy of the state that replaces the live state only on commit.
type memStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	accounts  map[int64]domain.Account
	contracts map[int64]domain.Contract
	jobs      map[int64]domain.Job

	// failStep makes the named transactional step fail.
	failStep string
	failErr  error
}

var (
	_ repository.AccountStore = (*memStore)(nil)
	_ repository.JobLedger    = (*memStore)(nil)
	_ repository.TxRunner     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[int64]domain.Account{},
		contracts: map[int64]domain.Contract{},
		jobs:      map[int64]domain.Job{},
	}
}

func (m *memStore) addAccount(id int64, role domain.Role, profession string, balance string) {
	m.accounts[id] = domain.Account{
		ID:         id,
		FirstName:  "first",
		LastName:   "last",
		Profession: profession,
		Role:       role,
		Balance:    decimal.RequireFromString(balance),
	}
}

func (m *memStore) addContract(id, clientID, contractorID int64, status domain.ContractStatus) {
	m.contracts[id] = domain.Contract{ID: id, ClientID: clientID, ContractorID: contractorID, Status: status}
}

func (m *memStore) addJob(id, contractID int64, price string, paid bool, createdAt time.Time) {
	j := domain.Job{ID: id, ContractID: contractID, Price: decimal.RequireFromString(price), Paid: paid, CreatedAt: createdAt}
	if paid {
		paidAt := createdAt
		j.PaymentDate = &paidAt
	}
	m.jobs[id] = j
}

func (m *memStore) balance(id int64) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id].Balance
}

func (m *memStore) job(id int64) domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

func (m *memStore) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (m *memStore) IncrementBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStep == "IncrementBalance" {
		return decimal.Zero, m.failErr
	}
	a, ok := m.accounts[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(amount)
	m.accounts[id] = a
	return a.Balance, nil
}

func (m *memStore) SumUnpaidForClient(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, j := range m.jobs {
		if !j.Paid && m.contracts[j.ContractID].ClientID == clientID {
			total = total.Add(j.Price)
		}
	}
	return total, nil
}

func (m *memStore) sortedPaidJobs(w domain.Window) []domain.Job {
	var jobs []domain.Job
	for _, j := range m.jobs {
		if j.Paid && w.Contains(j.CreatedAt) {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].ID < jobs[b].ID })
	return jobs
}

func (m *memStore) PaidByProfession(ctx context.Context, w domain.Window) ([]domain.ProfessionTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := map[string]int{}
	var totals []domain.ProfessionTotal
	for _, j := range m.sortedPaidJobs(w) {
		profession := m.accounts[m.contracts[j.ContractID].ContractorID].Profession
		i, ok := index[profession]
		if !ok {
			index[profession] = len(totals)
			totals = append(totals, domain.ProfessionTotal{Profession: profession, PaidAmount: j.Price})
			continue
		}
		totals[i].PaidAmount = totals[i].PaidAmount.Add(j.Price)
	}
	return totals, nil
}

func (m *memStore) PaidByClient(ctx context.Context, w domain.Window, limit int) ([]domain.ClientTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := map[int64]int{}
	var totals []domain.ClientTotal
	for _, j := range m.sortedPaidJobs(w) {
		client := m.accounts[m.contracts[j.ContractID].ClientID]
		i, ok := index[client.ID]
		if !ok {
			index[client.ID] = len(totals)
			totals = append(totals, domain.ClientTotal{
				ClientID:   client.ID,
				FirstName:  client.FirstName,
				LastName:   client.LastName,
				Profession: client.Profession,
				PaidAmount: j.Price,
			})
			continue
		}
		totals[i].PaidAmount = totals[i].PaidAmount.Add(j.Price)
	}
	sort.SliceStable(totals, func(a, b int) bool { return totals[a].PaidAmount.GreaterThan(totals[b].PaidAmount) })
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

func (m *memStore) GetContractForAccount(ctx context.Context, contractID int64, account *domain.Account) (*domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[contractID]
	if !ok || (account.IsClient() && c.ClientID != account.ID) || (!account.IsClient() && c.ContractorID != account.ID) {
		return nil, domain.ErrContractNotFound
	}
	return &c, nil
}

func (m *memStore) ListActiveContracts(ctx context.Context, account *domain.Account) ([]domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Contract
	for _, c := range m.contracts {
		party := c.ContractorID
		if account.IsClient() {
			party = c.ClientID
		}
		if party == account.ID && c.Status != domain.ContractTerminated {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *memStore) ListUnpaidJobs(ctx context.Context, account *domain.Account) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Job
	for _, j := range m.jobs {
		c := m.contracts[j.ContractID]
		party := c.ContractorID
		if account.IsClient() {
			party = c.ClientID
		}
		if !j.Paid && party == account.ID && c.Status == domain.ContractInProgress {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx repository.SettlementTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	tx := &memTx{store: m, accounts: map[int64]domain.Account{}, jobs: map[int64]domain.Job{}}
	for k, v := range m.accounts {
		tx.accounts[k] = v
	}
	for k, v := range m.jobs {
		tx.jobs[k] = v
	}
	m.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.accounts = tx.accounts
	m.jobs = tx.jobs
	m.mu.Unlock()
	return nil
}

type memTx struct {
	store    *memStore
	accounts map[int64]domain.Account
	jobs     map[int64]domain.Job
}

func (t *memTx) fail(step string) error {
	if t.store.failStep == step {
		return t.store.failErr
	}
	return nil
}

func (t *memTx) LockPayableJob(ctx context.Context, jobID, clientID int64) (*domain.PayableJob, error) {
	j, ok := t.jobs[jobID]
	if !ok || j.Paid {
		return nil, domain.ErrJobNotFound
	}
	c := t.store.contracts[j.ContractID]
	if c.ClientID != clientID {
		return nil, domain.ErrJobNotFound
	}
	return &domain.PayableJob{JobID: j.ID, ContractID: c.ID, ClientID: c.ClientID, ContractorID: c.ContractorID, Price: j.Price}, nil
}

func (t *memTx) LockAccount(ctx context.Context, id int64) (*domain.Account, error) {
	a, ok := t.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (t *memTx) DecrementBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	if err := t.fail("DecrementBalance"); err != nil {
		return err
	}
	a := t.accounts[id]
	if a.Balance.LessThan(amount) {
		return errors.New("balance guard rejected update")
	}
	a.Balance = a.Balance.Sub(amount)
	t.accounts[id] = a
	return nil
}

func (t *memTx) IncrementBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := t.fail("TxIncrementBalance"); err != nil {
		return decimal.Zero, err
	}
	a, ok := t.accounts[id]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(amount)
	t.accounts[id] = a
	return a.Balance, nil
}

func (t *memTx) MarkJobPaid(ctx context.Context, jobID int64, paidAt time.Time) error {
	if err := t.fail("MarkJobPaid"); err != nil {
		return err
	}
	j := t.jobs[jobID]
	if j.Paid {
		return domain.ErrJobNotFound
	}
	j.Paid = true
	j.PaymentDate = &paidAt
	t.jobs[jobID] = j
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
