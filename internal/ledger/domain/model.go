package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role distinguishes the two classes of account holders.
type Role string

const (
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
)

// ContractStatus constants
type ContractStatus string

const (
	ContractNew        ContractStatus = "new"
	ContractInProgress ContractStatus = "in_progress"
	ContractTerminated ContractStatus = "terminated"
)

// Account is a client or contractor profile holding a funds balance.
// Balances only change through the store's increment/decrement operations.
type Account struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Profession string          `json:"profession"`
	Role       Role            `json:"role"`
	Balance    decimal.Decimal `json:"balance"`
}

func (a *Account) IsClient() bool {
	return a != nil && a.Role == RoleClient
}

// Contract links one client account to one contractor account.
type Contract struct {
	ID           int64          `json:"id"`
	Terms        string         `json:"terms"`
	Status       ContractStatus `json:"status"`
	ClientID     int64          `json:"client_id"`
	ContractorID int64          `json:"contractor_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Job is a unit of billable work under a contract.
// PaymentDate is set if and only if Paid is true.
type Job struct {
	ID          int64           `json:"id"`
	ContractID  int64           `json:"contract_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PayableJob is an unpaid job together with the parties of its contract.
type PayableJob struct {
	JobID        int64
	ContractID   int64
	ClientID     int64
	ContractorID int64
	Price        decimal.Decimal
}

// Window is the half-open range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.Start.Before(w.End)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DateLayout is the MM-DD-YYYY format report windows are given in.
const DateLayout = "01-02-2006"

// ParseWindow reads both bounds as UTC midnights. Malformed, missing or
// inverted bounds are ErrInvalidRange.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return Window{}, ErrInvalidRange
	}
	e, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return Window{}, ErrInvalidRange
	}

	w := Window{Start: s, End: e}
	if !w.Valid() {
		return Window{}, ErrInvalidRange
	}
	return w, nil
}
