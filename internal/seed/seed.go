package seed

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is a YAML description of profiles, contracts and jobs.
type Fixture struct {
	Profiles  []Profile  `yaml:"profiles"`
	Contracts []Contract `yaml:"contracts"`
	Jobs      []Job      `yaml:"jobs"`
}

type Profile struct {
	ID         int64  `yaml:"id"`
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	Profession string `yaml:"profession"`
	Type       string `yaml:"type"`
	Balance    string `yaml:"balance"`
}

type Contract struct {
	ID           int64  `yaml:"id"`
	Terms        string `yaml:"terms"`
	Status       string `yaml:"status"`
	ClientID     int64  `yaml:"client_id"`
	ContractorID int64  `yaml:"contractor_id"`
}

type Job struct {
	ID          int64      `yaml:"id"`
	ContractID  int64      `yaml:"contract_id"`
	Description string     `yaml:"description"`
	Price       string     `yaml:"price"`
	Paid        bool       `yaml:"paid"`
	PaymentDate *time.Time `yaml:"payment_date"`
	CreatedAt   *time.Time `yaml:"created_at"`
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks references, roles and amounts before anything is written.
func (f *Fixture) Validate() error {
	roles := make(map[int64]domain.Role, len(f.Profiles))
	for _, p := range f.Profiles {
		role := domain.Role(p.Type)
		if role != domain.RoleClient && role != domain.RoleContractor {
			return fmt.Errorf("profile %d: unknown type %q", p.ID, p.Type)
		}
		balance, err := decimal.NewFromString(p.Balance)
		if err != nil || balance.IsNegative() {
			return fmt.Errorf("profile %d: invalid balance %q", p.ID, p.Balance)
		}
		roles[p.ID] = role
	}

	contracts := make(map[int64]bool, len(f.Contracts))
	for _, c := range f.Contracts {
		switch domain.ContractStatus(c.Status) {
		case domain.ContractNew, domain.ContractInProgress, domain.ContractTerminated:
		default:
			return fmt.Errorf("contract %d: unknown status %q", c.ID, c.Status)
		}
		if roles[c.ClientID] != domain.RoleClient {
			return fmt.Errorf("contract %d: client %d is not a client profile", c.ID, c.ClientID)
		}
		if roles[c.ContractorID] != domain.RoleContractor {
			return fmt.Errorf("contract %d: contractor %d is not a contractor profile", c.ID, c.ContractorID)
		}
		contracts[c.ID] = true
	}

	for _, j := range f.Jobs {
		if !contracts[j.ContractID] {
			return fmt.Errorf("job %d: unknown contract %d", j.ID, j.ContractID)
		}
		price, err := decimal.NewFromString(j.Price)
		if err != nil || !price.IsPositive() {
			return fmt.Errorf("job %d: invalid price %q", j.ID, j.Price)
		}
		if j.Paid != (j.PaymentDate != nil) {
			return fmt.Errorf("job %d: paid and payment_date disagree", j.ID)
		}
	}
	return nil
}

// Apply upserts the fixture in a single transaction and moves the id
// sequences past the seeded ids.
func Apply(ctx context.Context, db *sql.DB, f *Fixture) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range f.Profiles {
		if _, err := tx.ExecContext(ctx, upsertProfile,
			p.ID, p.FirstName, p.LastName, p.Profession, p.Type, p.Balance); err != nil {
			return fmt.Errorf("failed to seed profile %d: %w", p.ID, err)
		}
	}
	for _, c := range f.Contracts {
		if _, err := tx.ExecContext(ctx, upsertContract,
			c.ID, c.Terms, c.Status, c.ClientID, c.ContractorID); err != nil {
			return fmt.Errorf("failed to seed contract %d: %w", c.ID, err)
		}
	}
	for _, j := range f.Jobs {
		createdAt := time.Now().UTC()
		if j.CreatedAt != nil {
			createdAt = *j.CreatedAt
		}
		if _, err := tx.ExecContext(ctx, upsertJob,
			j.ID, j.ContractID, j.Description, j.Price, j.Paid, j.PaymentDate, createdAt); err != nil {
			return fmt.Errorf("failed to seed job %d: %w", j.ID, err)
		}
	}

	for _, table := range []string{"profiles", "contracts", "jobs"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(resetSequence, table, table)); err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

const (
	upsertProfile = `
		INSERT INTO profiles (id, first_name, last_name, profession, type, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profession = EXCLUDED.profession,
			type = EXCLUDED.type,
			balance = EXCLUDED.balance,
			updated_at = NOW()
	`
	upsertContract = `
		INSERT INTO contracts (id, terms, status, client_id, contractor_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			terms = EXCLUDED.terms,
			status = EXCLUDED.status,
			client_id = EXCLUDED.client_id,
			contractor_id = EXCLUDED.contractor_id,
			updated_at = NOW()
	`
	upsertJob = `
		INSERT INTO jobs (id, contract_id, description, price, paid, payment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			contract_id = EXCLUDED.contract_id,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			paid = EXCLUDED.paid,
			payment_date = EXCLUDED.payment_date,
			created_at = EXCLUDED.created_at,
			updated_at = NOW()
	`
	resetSequence = `SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`
)
