package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/testutil"
	"github.com/invixio/invixio/internal/types"
)

type SweepServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SweepService
}

func TestSweepService(t *testing.T) {
	suite.Run(t, new(SweepServiceSuite))
}

func (s *SweepServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	collab := s.GetCollaborators()
	s.service = NewSweepService(ServiceParams{
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

func (s *SweepServiceSuite) seedInvoice(userID string, seq int64, status types.InvoiceStatus, dueDate time.Time) *invoice.Invoice {
	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		UserID:        userID,
		InvoiceNumber: invoice.FormatNumber(now.Year(), seq),
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.test",
		InvoiceDate:   now.AddDate(0, 0, -30),
		DueDate:       dueDate,
		Currency:      "USD",
		Subtotal:      decimal.NewFromInt(100),
		Total:         decimal.NewFromInt(100),
		InvoiceStatus: status,
		BaseModel:     types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetStores().InvoiceRepo.CreateWithItems(s.GetContext(), inv))
	return inv
}

func (s *SweepServiceSuite) statusOf(userID, id string) types.InvoiceStatus {
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), userID, id)
	s.NoError(err)
	return inv.InvoiceStatus
}

func (s *SweepServiceSuite) TestSweepTransitionsPastDuePending() {
	now := time.Now().UTC()
	pastDue := s.seedInvoice("user_a", 1, types.InvoiceStatusPending, now.AddDate(0, 0, -2))
	dueToday := s.seedInvoice("user_a", 2, types.InvoiceStatusPending, now)
	future := s.seedInvoice("user_a", 3, types.InvoiceStatusPending, now.AddDate(0, 0, 10))

	result, err := s.service.RunOverdueSweep(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Scanned)
	s.Equal(1, result.Transitioned)
	s.Equal(0, result.Failed)

	s.Equal(types.InvoiceStatusOverdue, s.statusOf("user_a", pastDue.ID))
	s.Equal(types.InvoiceStatusPending, s.statusOf("user_a", dueToday.ID))
	s.Equal(types.InvoiceStatusPending, s.statusOf("user_a", future.ID))
}

func (s *SweepServiceSuite) TestSweepCrossesUserBoundaries() {
	now := time.Now().UTC()
	a := s.seedInvoice("user_a", 1, types.InvoiceStatusPending, now.AddDate(0, 0, -1))
	b := s.seedInvoice("user_b", 1, types.InvoiceStatusPending, now.AddDate(0, 0, -1))

	result, err := s.service.RunOverdueSweep(s.GetContext())
	s.NoError(err)
	s.Equal(2, result.Transitioned)
	s.Equal(types.InvoiceStatusOverdue, s.statusOf("user_a", a.ID))
	s.Equal(types.InvoiceStatusOverdue, s.statusOf("user_b", b.ID))
}

func (s *SweepServiceSuite) TestSweepLeavesSettledInvoicesAlone() {
	now := time.Now().UTC()
	paid := s.seedInvoice("user_a", 1, types.InvoiceStatusPaid, now.AddDate(0, 0, -5))
	cancelled := s.seedInvoice("user_a", 2, types.InvoiceStatusCancelled, now.AddDate(0, 0, -5))
	draft := s.seedInvoice("user_a", 3, types.InvoiceStatusDraft, now.AddDate(0, 0, -5))

	result, err := s.service.RunOverdueSweep(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Scanned)
	s.Equal(0, result.Transitioned)

	s.Equal(types.InvoiceStatusPaid, s.statusOf("user_a", paid.ID))
	s.Equal(types.InvoiceStatusCancelled, s.statusOf("user_a", cancelled.ID))
	s.Equal(types.InvoiceStatusDraft, s.statusOf("user_a", draft.ID))
}

func (s *SweepServiceSuite) TestSweepIsIdempotent() {
	now := time.Now().UTC()
	inv := s.seedInvoice("user_a", 1, types.InvoiceStatusPending, now.AddDate(0, 0, -2))

	first, err := s.service.RunOverdueSweep(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Transitioned)

	second, err := s.service.RunOverdueSweep(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Scanned)
	s.Equal(0, second.Transitioned)

	s.Equal(types.InvoiceStatusOverdue, s.statusOf("user_a", inv.ID))
}

func (s *SweepServiceSuite) TestSweepLeavesInvoicePaidMidSweepPaid() {
	now := time.Now().UTC()
	inv := s.seedInvoice("user_a", 1, types.InvoiceStatusPending, now.AddDate(0, 0, -2))
	repo := s.GetStores().InvoiceRepo

	// the sweep lists past-due pending invoices first, then updates each one;
	// replay that interleaving with a payment landing in between
	due, err := repo.ListDueBefore(s.GetContext(), types.BeginningOfDay(now), []types.InvoiceStatus{types.InvoiceStatusPending})
	s.NoError(err)
	s.Len(due, 1)

	paidAt := now
	s.NoError(repo.UpdateStatus(s.GetContext(), "user_a", inv.ID, types.InvoiceStatusPaid, &paidAt, nil))

	applied, err := repo.TransitionStatusUnscoped(s.GetContext(), due[0].ID, types.InvoiceStatusPending, types.InvoiceStatusOverdue)
	s.NoError(err)
	s.False(applied)

	got, err := repo.Get(s.GetContext(), "user_a", inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, got.InvoiceStatus)
	s.NotNil(got.PaidAt)
}

func (s *SweepServiceSuite) TestSweepEmptyStore() {
	result, err := s.service.RunOverdueSweep(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Scanned)
	s.Equal(0, result.Transitioned)
	s.Equal(0, result.Failed)
}
