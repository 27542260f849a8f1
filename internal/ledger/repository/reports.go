package repository

import (
	"context"
	"fmt"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// SumUnpaidForClient totals the price of every unpaid job on the client's contracts.
func (r *LedgerRepository) SumUnpaidForClient(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = $1 AND j.paid = FALSE
	`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, clientID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum unpaid jobs: %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) PaidByProfession(ctx context.Context, w domain.Window) ([]domain.ProfessionTotal, error) {
	query := `
		SELECT p.profession, SUM(j.price) AS paid_amount
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE AND j.created_at >= $1 AND j.created_at < $2
		GROUP BY p.profession
		ORDER BY MIN(j.id) ASC
	`

	rows, err := r.db.QueryContext(ctx, query, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate paid jobs by profession: %w", err)
	}
	defer rows.Close()

	var totals []domain.ProfessionTotal
	for rows.Next() {
		var t domain.ProfessionTotal
		if err := rows.Scan(&t.Profession, &t.PaidAmount); err != nil {
			return nil, fmt.Errorf("failed to scan profession total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate paid jobs by profession: %w", err)
	}

	return totals, nil
}

func (r *LedgerRepository) PaidByClient(ctx context.Context, w domain.Window, limit int) ([]domain.ClientTotal, error) {
	query := `
		SELECT p.id, p.first_name, p.last_name, p.profession, SUM(j.price) AS paid_amount
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE AND j.created_at >= $1 AND j.created_at < $2
		GROUP BY p.id, p.first_name, p.last_name, p.profession
		ORDER BY paid_amount DESC, MIN(j.id) ASC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, w.Start, w.End, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate paid jobs by client: %w", err)
	}
	defer rows.Close()

	var totals []domain.ClientTotal
	for rows.Next() {
		var t domain.ClientTotal
		if err := rows.Scan(&t.ClientID, &t.FirstName, &t.LastName, &t.Profession, &t.PaidAmount); err != nil {
			return nil, fmt.Errorf("failed to scan client total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate paid jobs by client: %w", err)
	}

	return totals, nil
}
