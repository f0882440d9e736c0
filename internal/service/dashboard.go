package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/dto"
	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// monthCountTTL bounds staleness of the cached monthly invoice counter. The
// counter is display-only; plan limits always go back to the database.
const monthCountTTL = 5 * time.Minute

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
	StatusBreakdown(ctx context.Context, start, end time.Time) (map[types.InvoiceStatus]int, error)
	MonthlyRevenue(ctx context.Context) (*dto.MonthlyRevenueResponse, error)
}

type dashboardService struct {
	ServiceParams
}

func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{ServiceParams: params}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	now := time.Now().UTC()

	total, err := s.InvoiceRepo.Count(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	thisMonth, err := s.monthCount(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.InvoiceRepo.GroupByStatus(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	// Paid revenue over all time, outstanding over pending and overdue.
	revenue, outstanding, err := s.revenueTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.SubscriptionRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return nil, err
	}

	resp := &dto.DashboardSummaryResponse{
		TotalInvoices:     total,
		InvoicesThisMonth: thisMonth,
		StatusBreakdown:   breakdown,
		TotalRevenue:      revenue,
		OutstandingAmount: outstanding,
		PlanActive:        sub.IsActive(),
	}
	if !sub.IsActive() {
		resp.FreePlanLimit = s.Config.Billing.FreePlanInvoiceLimit
	}
	return resp, nil
}

func (s *dashboardService) StatusBreakdown(ctx context.Context, start, end time.Time) (map[types.InvoiceStatus]int, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}
	return s.InvoiceRepo.GroupByStatus(ctx, userID, start, end)
}

// MonthlyRevenue returns the trailing twelve months of paid revenue, oldest
// month first, with zero-revenue months filled in.
func (s *dashboardService) MonthlyRevenue(ctx context.Context) (*dto.MonthlyRevenueResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	start, end := trailingYearRange(time.Now().UTC())

	byMonth, err := s.InvoiceRepo.RevenueByMonth(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]dto.MonthlyRevenuePoint, 0, 12)
	for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
		key := types.MonthKey(m)
		revenue, ok := byMonth[key]
		if !ok {
			revenue = decimal.Zero
		}
		points = append(points, dto.MonthlyRevenuePoint{
			Month:   key,
			Revenue: revenue,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })

	return &dto.MonthlyRevenueResponse{Points: points}, nil
}

// trailingYearRange returns the half-open window covering the current month
// and the eleven before it. Stepping back from the month start rather than
// from now itself keeps month-end dates from rolling past short months and
// shrinking the window.
func trailingYearRange(now time.Time) (time.Time, time.Time) {
	monthStart, end := types.PricingMonthRange(now)
	return monthStart.AddDate(0, -11, 0), end
}

// monthCount serves the month's invoice count read-through from cache. It is
// never consulted for plan limit decisions.
func (s *dashboardService) monthCount(ctx context.Context, userID string, now time.Time) (int, error) {
	key := cache.GenerateKey(cache.PrefixInvoiceCount, userID, types.MonthKey(now))
	if cached, found := s.Cache.Get(ctx, key); found {
		if count, ok := cached.(int); ok {
			return count, nil
		}
	}

	start, end := types.PricingMonthRange(now)
	count, err := s.InvoiceRepo.CountInRange(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}
	s.Cache.Set(ctx, key, count, monthCountTTL)
	return count, nil
}

func (s *dashboardService) revenueTotals(ctx context.Context, userID string) (paid, outstanding decimal.Decimal, err error) {
	filter := &types.InvoiceFilter{QueryFilter: *types.NewNoLimitQueryFilter()}

	invoices, err := s.InvoiceRepo.List(ctx, userID, filter)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	for _, inv := range invoices {
		switch inv.InvoiceStatus {
		case types.InvoiceStatusPaid:
			paid = paid.Add(inv.Total)
		case types.InvoiceStatusPending, types.InvoiceStatusOverdue:
			outstanding = outstanding.Add(inv.Total)
		}
	}
	return paid, outstanding, nil
}
