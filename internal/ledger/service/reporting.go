package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/repository"
)

// Reports is the read-only query surface shared by the engine and its cache.
type Reports interface {
	BestProfession(ctx context.Context, w domain.Window) (*domain.ProfessionTotal, error)
	TopClients(ctx context.Context, w domain.Window, limit int) ([]domain.ClientTotal, error)
}

// ReportingEngine ranks professions and clients by paid volume inside a window.
type ReportingEngine struct {
	jobs repository.JobLedger
}

// NewReportingEngine creates a new ReportingEngine
func NewReportingEngine(jobs repository.JobLedger) *ReportingEngine {
	return &ReportingEngine{jobs: jobs}
}

var _ Reports = (*ReportingEngine)(nil)

// BestProfession returns the contractor profession with the highest paid
// volume over jobs created in [w.Start, w.End). The first group discovered
// wins a tie.
func (r *ReportingEngine) BestProfession(ctx context.Context, w domain.Window) (*domain.ProfessionTotal, error) {
	if !w.Valid() {
		return nil, domain.ErrInvalidRange
	}

	totals, err := r.jobs.PaidByProfession(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("best profession: %w", err)
	}
	if len(totals) == 0 {
		return nil, domain.ErrNoData
	}

	best := totals[0]
	for _, t := range totals[1:] {
		if t.PaidAmount.GreaterThan(best.PaidAmount) {
			best = t
		}
	}
	return &best, nil
}

// TopClients returns at most limit clients ordered by descending paid volume.
// A non-positive limit means DefaultTopClientsLimit.
func (r *ReportingEngine) TopClients(ctx context.Context, w domain.Window, limit int) ([]domain.ClientTotal, error) {
	if !w.Valid() {
		return nil, domain.ErrInvalidRange
	}
	if limit <= 0 {
		limit = domain.DefaultTopClientsLimit
	}

	totals, err := r.jobs.PaidByClient(ctx, w, limit)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}
	if len(totals) == 0 {
		return nil, domain.ErrNoData
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].PaidAmount.GreaterThan(totals[j].PaidAmount)
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}
