package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/testutil"
	"github.com/invixio/invixio/internal/types"
)

type DashboardServiceSuite struct {
	testutil.BaseServiceTestSuite
	service DashboardService
	seq     int64
}

func TestDashboardService(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}

func (s *DashboardServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.seq = 0

	stores := s.GetStores()
	collab := s.GetCollaborators()
	s.service = NewDashboardService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               testutil.NewMockPostgresClient(s.GetLogger()),
		InvoiceRepo:      stores.InvoiceRepo,
		UserRepo:         stores.UserRepo,
		SubscriptionRepo: stores.SubscriptionRepo,
		PDFGenerator:     collab.PDFGenerator,
		S3:               collab.Documents,
		Mailer:           collab.Mailer,
		Cache:            s.GetCache(),
		Client:           collab.HTTPClient,
	})
}

func (s *DashboardServiceSuite) seedInvoice(userID string, status types.InvoiceStatus, total int64, paidAt *time.Time) *invoice.Invoice {
	s.seq++
	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		UserID:        userID,
		InvoiceNumber: invoice.FormatNumber(now.Year(), s.seq),
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.test",
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, 14),
		Currency:      "USD",
		Subtotal:      decimal.NewFromInt(total),
		Total:         decimal.NewFromInt(total),
		InvoiceStatus: status,
		PaidAt:        paidAt,
		BaseModel:     types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().InvoiceRepo.CreateWithItems(s.GetContext(), inv))
	return inv
}

func (s *DashboardServiceSuite) TestSummary() {
	now := time.Now().UTC()
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, 200, nil)
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusOverdue, 300, nil)
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPaid, 100, lo.ToPtr(now))

	// another user's invoices never leak into the summary
	s.seedInvoice("user_other", types.InvoiceStatusPaid, 9999, lo.ToPtr(now))

	resp, err := s.service.Summary(s.GetContext())
	s.NoError(err)
	s.Equal(3, resp.TotalInvoices)
	s.Equal(3, resp.InvoicesThisMonth)
	s.Equal(1, resp.StatusBreakdown[types.InvoiceStatusPending])
	s.Equal(1, resp.StatusBreakdown[types.InvoiceStatusOverdue])
	s.Equal(1, resp.StatusBreakdown[types.InvoiceStatusPaid])
	s.True(resp.TotalRevenue.Equal(decimal.NewFromInt(100)))
	s.True(resp.OutstandingAmount.Equal(decimal.NewFromInt(500)))
	s.False(resp.PlanActive)
	s.Equal(s.GetConfig().Billing.FreePlanInvoiceLimit, resp.FreePlanLimit)
}

func (s *DashboardServiceSuite) TestSummaryEmpty() {
	resp, err := s.service.Summary(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.TotalInvoices)
	s.Equal(0, resp.InvoicesThisMonth)
	s.True(resp.TotalRevenue.IsZero())
	s.True(resp.OutstandingAmount.IsZero())
}

func (s *DashboardServiceSuite) TestMonthCountIsServedFromCache() {
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, 100, nil)

	resp, err := s.service.Summary(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.InvoicesThisMonth)

	// a second write lands after the counter was cached
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, 100, nil)
	resp, err = s.service.Summary(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.InvoicesThisMonth)

	// dropping the key forces a recount
	key := cache.GenerateKey(cache.PrefixInvoiceCount, testutil.DefaultUserID, types.MonthKey(time.Now().UTC()))
	s.GetCache().Delete(s.GetContext(), key)
	resp, err = s.service.Summary(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.InvoicesThisMonth)
}

func (s *DashboardServiceSuite) TestStatusBreakdownAllTime() {
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, 100, nil)
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, 100, nil)
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusCancelled, 100, nil)

	breakdown, err := s.service.StatusBreakdown(s.GetContext(), time.Time{}, time.Time{})
	s.NoError(err)
	s.Equal(2, breakdown[types.InvoiceStatusPending])
	s.Equal(1, breakdown[types.InvoiceStatusCancelled])
}

func (s *DashboardServiceSuite) TestMonthlyRevenueFillsEmptyMonths() {
	now := time.Now().UTC()
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPaid, 150, lo.ToPtr(now))
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPaid, 50, lo.ToPtr(now))
	// unpaid totals never count as revenue
	s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, 999, nil)

	resp, err := s.service.MonthlyRevenue(s.GetContext())
	s.NoError(err)
	s.Len(resp.Points, 12)

	// oldest month first, current month last
	for i := 1; i < len(resp.Points); i++ {
		s.Less(resp.Points[i-1].Month, resp.Points[i].Month)
	}

	last := resp.Points[len(resp.Points)-1]
	s.Equal(types.MonthKey(now), last.Month)
	s.True(last.Revenue.Equal(decimal.NewFromInt(200)))

	for _, p := range resp.Points[:len(resp.Points)-1] {
		s.True(p.Revenue.IsZero())
	}
}

// The next two tests run in order and together check that cache entries
// written by one test are gone by the time the next test starts.
func (s *DashboardServiceSuite) TestCacheResetBetweenTestsSeed() {
	s.GetCache().Set(s.GetContext(), "leak-check", 42, time.Minute)
}

func (s *DashboardServiceSuite) TestCacheResetBetweenTestsVerify() {
	_, found := s.GetCache().Get(s.GetContext(), "leak-check")
	s.False(found)
}

func (s *DashboardServiceSuite) TestTrailingYearRangeSpansTwelveMonths() {
	// month-end dates must not shrink the window by rolling past short months
	for _, now := range []time.Time{
		time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 6, 30, 0, 0, time.UTC),
	} {
		start, end := trailingYearRange(now)

		months := 0
		for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
			months++
		}
		s.Equal(12, months, "window from %s", now)

		monthStart, _ := types.PricingMonthRange(now)
		s.Equal(monthStart.AddDate(0, -11, 0), start)
		s.Equal(monthStart.AddDate(0, 1, 0), end)
	}
}
