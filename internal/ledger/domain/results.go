package domain

import "github.com/shopspring/decimal"

// SettlementResult is returned by a successful job payment.
type SettlementResult struct {
	JobID        int64           `json:"job_id"`
	ContractID   int64           `json:"contract_id"`
	ContractorID int64           `json:"contractor_id"`
	ClientID     int64           `json:"client_id"`
	Amount       decimal.Decimal `json:"amount"`
	Message      string          `json:"message"`
}

// DepositResult is returned by a successful deposit.
type DepositResult struct {
	ClientID    int64           `json:"client_id"`
	Amount      decimal.Decimal `json:"deposit_amount"`
	OldBalance  decimal.Decimal `json:"old_balance"`
	NewBalance  decimal.Decimal `json:"current_balance"`
	TotalUnpaid decimal.Decimal `json:"total_unpaid_balance"`
	Message     string          `json:"message"`
}

// ProfessionTotal is the paid volume earned by one contractor profession.
type ProfessionTotal struct {
	Profession string          `json:"profession"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// ClientTotal is the paid volume spent by one client.
type ClientTotal struct {
	ClientID   int64           `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Profession string          `json:"profession"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// DefaultTopClientsLimit is used when a caller does not specify a limit.
const DefaultTopClientsLimit = 2
