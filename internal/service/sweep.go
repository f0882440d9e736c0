package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/invixio/invixio/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// sweepConcurrency bounds parallel status updates during the overdue sweep.
const sweepConcurrency = 8

// SweepService flips pending invoices past their due date to OVERDUE. It is
// the one operation that runs across all users.
type SweepService interface {
	RunOverdueSweep(ctx context.Context) (*OverdueSweepResult, error)
}

// OverdueSweepResult summarizes one sweep run.
type OverdueSweepResult struct {
	Scanned      int `json:"scanned"`
	Transitioned int `json:"transitioned"`
	Failed       int `json:"failed"`
}

type sweepService struct {
	ServiceParams
}

func NewSweepService(params ServiceParams) SweepService {
	return &sweepService{ServiceParams: params}
}

// RunOverdueSweep transitions every PENDING invoice with a due date before
// today to OVERDUE. Re-running is a no-op: already-OVERDUE invoices are
// filtered out by the status predicate, so the sweep is idempotent.
func (s *sweepService) RunOverdueSweep(ctx context.Context) (*OverdueSweepResult, error) {
	cutoff := types.BeginningOfDay(time.Now().UTC())

	due, err := s.InvoiceRepo.ListDueBefore(ctx, cutoff, []types.InvoiceStatus{types.InvoiceStatusPending})
	if err != nil {
		return nil, err
	}

	var transitioned, failed atomic.Int64

	p := pool.New().WithMaxGoroutines(sweepConcurrency)
	for _, inv := range due {
		inv := inv
		p.Go(func() {
			applied, err := s.InvoiceRepo.TransitionStatusUnscoped(ctx, inv.ID, types.InvoiceStatusPending, types.InvoiceStatusOverdue)
			if err != nil {
				s.Logger.Errorw("overdue sweep update failed",
					"error", err,
					"invoice_id", inv.ID,
				)
				failed.Add(1)
				return
			}
			if !applied {
				// settled or deleted between the listing and this update
				s.Logger.Infow("invoice left pending state mid-sweep, skipping",
					"invoice_id", inv.ID,
				)
				return
			}
			transitioned.Add(1)
		})
	}
	p.Wait()

	result := &OverdueSweepResult{
		Scanned:      len(due),
		Transitioned: int(transitioned.Load()),
		Failed:       int(failed.Load()),
	}
	s.Logger.Infow("overdue sweep finished",
		"scanned", result.Scanned,
		"transitioned", result.Transitioned,
		"failed", result.Failed,
	)
	return result, nil
}
