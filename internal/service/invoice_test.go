package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/s3"
	"github.com/invixio/invixio/internal/testutil"
	"github.com/invixio/invixio/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	cfg     *config.Configuration
	service InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	// each test gets its own config so limits can be tuned freely
	cfg := *s.GetConfig()
	s.cfg = &cfg
	s.service = NewInvoiceService(s.params())
}

func (s *InvoiceServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	collab := s.GetCollaborators()
	return ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.cfg,
		DB:               testutil.NewMockPostgresClient(s.GetLogger()),
		InvoiceRepo:      stores.InvoiceRepo,
		UserRepo:         stores.UserRepo,
		SubscriptionRepo: stores.SubscriptionRepo,
		PDFGenerator:     collab.PDFGenerator,
		S3:               collab.Documents,
		Mailer:           collab.Mailer,
		Cache:            s.GetCache(),
		Client:           collab.HTTPClient,
	}
}

func (s *InvoiceServiceSuite) seedUser(id, email string) *user.User {
	u := &user.User{
		ID:             id,
		Email:          email,
		Name:           "Jordan Reyes",
		CompanyName:    "Atelier North",
		CompanyEmail:   "billing@ateliernorth.test",
		CompanyAddress: "12 Harbor Way, Oslo",
		BusinessType:   types.BusinessTypeFreelancer,
		Currency:       "USD",
		Onboarded:      true,
		BaseModel:      types.GetDefaultBaseModel(),
	}
	s.NoError(s.GetUserRepo().Create(s.GetContext(), u))
	return u
}

func (s *InvoiceServiceSuite) seedDefaultUser() *user.User {
	return s.seedUser(testutil.DefaultUserID, testutil.DefaultUserEmail)
}

func (s *InvoiceServiceSuite) newCreateRequest() dto.CreateInvoiceRequest {
	now := time.Now().UTC()
	return dto.CreateInvoiceRequest{
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.test",
		ClientAddress: "1 Main St, Springfield",
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, 14),
		Currency:      "USD",
		Items: []dto.InvoiceItemRequest{
			{Description: "Landing page design", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(150)},
		},
		Tax:      decimal.NewFromInt(10),
		Discount: decimal.NewFromInt(5),
	}
}

// seedInvoice writes an invoice straight into the store, bypassing the
// creation pipeline, so transition tests can start from any status.
func (s *InvoiceServiceSuite) seedInvoice(userID string, status types.InvoiceStatus, dueDate time.Time) *invoice.Invoice {
	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		UserID:        userID,
		InvoiceNumber: invoice.FormatNumber(now.Year(), 900001),
		CompanyName:   "Atelier North",
		CompanyEmail:  "billing@ateliernorth.test",
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.test",
		InvoiceDate:   now,
		DueDate:       dueDate,
		Currency:      "USD",
		Subtotal:      decimal.NewFromInt(100),
		Total:         decimal.NewFromInt(100),
		InvoiceStatus: status,
		Items: []*invoice.InvoiceItem{{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(100),
			Amount:      decimal.NewFromInt(100),
			BaseModel:   types.GetDefaultBaseModel(),
		}},
		BaseModel: types.GetDefaultBaseModel(),
	}
	if status == types.InvoiceStatusPaid {
		inv.PaidAt = lo.ToPtr(now)
	}
	s.NoError(s.GetStores().InvoiceRepo.CreateWithItems(s.GetContext(), inv))
	return inv
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	s.seedDefaultUser()

	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(dto.OutcomeSuccess, resp.Outcome)
	s.Empty(resp.Warnings)

	inv := resp.Invoice
	s.Equal(types.InvoiceStatusPending, inv.InvoiceStatus)
	s.Equal(invoice.FormatNumber(time.Now().UTC().Year(), 1), inv.InvoiceNumber)
	s.Equal("Atelier North", inv.CompanyName)
	s.Equal("billing@ateliernorth.test", inv.CompanyEmail)
	s.True(inv.Subtotal.Equal(decimal.NewFromInt(300)))
	s.True(inv.Tax.Equal(decimal.NewFromInt(10)))
	s.True(inv.Discount.Equal(decimal.NewFromInt(5)))
	s.True(inv.Total.Equal(decimal.NewFromInt(305)))
	s.Len(inv.Items, 1)

	// the rendered document landed in object storage and its public URL was
	// written back onto the invoice
	_, stored := s.GetCollaborators().Documents.Document(inv.ID, s3.DocumentTypeInvoice)
	s.True(stored)
	s.NotNil(inv.PDFURL)

	sent := s.GetCollaborators().Mailer.Sent()
	s.Len(sent, 1)
	s.Equal(types.InvoiceEmailTypeCreated, sent[0].Type)
	s.Equal("billing@acme.test", sent[0].To)
	s.True(sent[0].HasPDF)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceMultipleLines() {
	s.seedDefaultUser()

	req := s.newCreateRequest()
	req.Items = []dto.InvoiceItemRequest{
		{Description: "Design", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(25)},
	}
	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.Invoice.Subtotal.Equal(decimal.NewFromInt(125)))
	s.True(resp.Invoice.Total.Equal(decimal.NewFromInt(130)))
	s.Len(resp.Invoice.Items, 2)

	paid, err := s.service.MarkInvoicePaid(s.GetContext(), resp.Invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
	s.NotNil(paid.PaidAt)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceFallsBackToUserCurrency() {
	s.seedDefaultUser()

	req := s.newCreateRequest()
	req.Currency = ""
	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.Equal("USD", resp.Invoice.Currency)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRequiresOnboarding() {
	// no user record at all
	_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// provisioned but not onboarded
	s.NoError(s.GetUserRepo().Create(s.GetContext(), &user.User{
		ID:        testutil.DefaultUserID,
		Email:     testutil.DefaultUserEmail,
		BaseModel: types.GetDefaultBaseModel(),
	}))
	_, err = s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRejectsBadDates() {
	s.seedDefaultUser()

	req := s.newCreateRequest()
	req.InvoiceDate = time.Now().UTC().AddDate(0, 0, -1)
	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.True(ierr.IsValidation(err))

	req = s.newCreateRequest()
	req.DueDate = time.Now().UTC().AddDate(0, 0, -1)
	_, err = s.service.CreateInvoice(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceNumberSequence() {
	s.seedDefaultUser()
	year := time.Now().UTC().Year()

	first, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	second, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.Equal(invoice.FormatNumber(year, 1), first.Invoice.InvoiceNumber)
	s.Equal(invoice.FormatNumber(year, 2), second.Invoice.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSequenceExhaustion() {
	s.seedDefaultUser()
	s.cfg.Billing.InvoiceSequenceCeiling = 1

	_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	_, err = s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.Error(err)
	s.True(ierr.IsSequenceExhausted(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceFreePlanLimit() {
	s.seedDefaultUser()
	s.cfg.Billing.FreePlanInvoiceLimit = 2

	for i := 0; i < 2; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
		s.NoError(err)
	}

	_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	// an active subscription lifts the quota
	s.NoError(s.GetSubscriptionRepo().Upsert(s.GetContext(), &subscription.Subscription{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		UserID:               testutil.DefaultUserID,
		StripeSubscriptionID: "sub_123",
		PlanStatus:           types.SubscriptionStatusActive,
		BaseModel:            types.GetDefaultBaseModel(),
	}))
	_, err = s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
}

func (s *InvoiceServiceSuite) TestCreateInvoicePercentageMode() {
	s.seedDefaultUser()
	s.cfg.Invoice.AdjustmentMode = types.AdjustmentModePercentage

	req := s.newCreateRequest()
	req.Items = []dto.InvoiceItemRequest{
		{Description: "Retainer", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000)},
	}
	req.Tax = decimal.Zero
	req.Discount = decimal.Zero
	req.TaxPercentage = decimal.NewFromFloat(7.5)
	req.DiscountPercentage = decimal.NewFromInt(10)

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.Invoice.Tax.Equal(decimal.NewFromInt(75)))
	s.True(resp.Invoice.Discount.Equal(decimal.NewFromInt(100)))
	s.True(resp.Invoice.Total.Equal(decimal.NewFromInt(975)))
}

func (s *InvoiceServiceSuite) TestCreateInvoicePDFFailureIsWarning() {
	s.seedDefaultUser()
	s.GetCollaborators().PDFGenerator.Fail = true

	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(dto.OutcomeWarning, resp.Outcome)
	s.Contains(resp.Warnings, WarnPDFGeneration)

	// nothing to upload, but the email still goes out without an attachment
	_, stored := s.GetCollaborators().Documents.Document(resp.Invoice.ID, s3.DocumentTypeInvoice)
	s.False(stored)
	sent := s.GetCollaborators().Mailer.Sent()
	s.Len(sent, 1)
	s.False(sent[0].HasPDF)

	// the invoice itself was written
	got, err := s.service.GetInvoice(s.GetContext(), resp.Invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, got.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUploadFailureIsWarning() {
	s.seedDefaultUser()
	s.GetCollaborators().Documents.FailUpload = true

	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(dto.OutcomeWarning, resp.Outcome)
	s.Contains(resp.Warnings, WarnPDFUpload)
	s.Nil(resp.Invoice.PDFURL)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceEmailFailureIsWarning() {
	s.seedDefaultUser()
	s.GetCollaborators().Mailer.Fail = true

	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(dto.OutcomeWarning, resp.Outcome)
	s.Contains(resp.Warnings, WarnEmailDelivery)

	// the document pipeline ran to completion regardless
	_, stored := s.GetCollaborators().Documents.Document(resp.Invoice.ID, s3.DocumentTypeInvoice)
	s.True(stored)
}

func (s *InvoiceServiceSuite) TestPreviewInvoicePersistsNothing() {
	s.seedDefaultUser()

	resp, err := s.service.PreviewInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.Empty(resp.InvoiceNumber)
	s.True(resp.Total.Equal(decimal.NewFromInt(305)))

	list, err := s.service.ListInvoices(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(0, list.Total)
	s.Empty(s.GetCollaborators().Mailer.Sent())
	s.Empty(s.GetCollaborators().PDFGenerator.Rendered())
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRecomputesTotals() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	now := time.Now().UTC()
	resp, err := s.service.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		InvoiceDate: now,
		DueDate:     now.AddDate(0, 0, 30),
		Items: []dto.InvoiceItemRequest{
			{Description: "Landing page design", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(150)},
		},
		Tax: decimal.NewFromInt(20),
	})
	s.NoError(err)
	s.True(resp.Invoice.Subtotal.Equal(decimal.NewFromInt(450)))
	s.True(resp.Invoice.Total.Equal(decimal.NewFromInt(470)))
	s.Equal(created.Invoice.InvoiceNumber, resp.Invoice.InvoiceNumber)

	sent := s.GetCollaborators().Mailer.Sent()
	s.Equal(types.InvoiceEmailTypeUpdated, sent[len(sent)-1].Type)
}

func (s *InvoiceServiceSuite) TestUpdatePaidInvoiceRejected() {
	s.seedDefaultUser()
	inv := s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPaid, time.Now().UTC().AddDate(0, 0, 7))

	now := time.Now().UTC()
	_, err := s.service.UpdateInvoice(s.GetContext(), inv.ID, dto.UpdateInvoiceRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		InvoiceDate: now,
		DueDate:     now,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestMarkPaidAndUnpaid() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	id := created.Invoice.ID

	paid, err := s.service.MarkInvoicePaid(s.GetContext(), id)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
	s.NotNil(paid.PaidAt)

	_, err = s.service.MarkInvoicePaid(s.GetContext(), id)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// the due date is in the future, so reverting lands on PENDING
	unpaid, err := s.service.MarkInvoiceUnpaid(s.GetContext(), id)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPending, unpaid.InvoiceStatus)
	s.Nil(unpaid.PaidAt)
}

func (s *InvoiceServiceSuite) TestMarkUnpaidPastDueLandsOverdue() {
	s.seedDefaultUser()
	inv := s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPaid, time.Now().UTC().AddDate(0, 0, -3))

	resp, err := s.service.MarkInvoiceUnpaid(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestCancelInvoice() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	id := created.Invoice.ID

	resp, err := s.service.CancelInvoice(s.GetContext(), id)
	s.NoError(err)
	s.Equal(types.InvoiceStatusCancelled, resp.Invoice.InvoiceStatus)
	s.NotNil(resp.Invoice.CancelledAt)

	sent := s.GetCollaborators().Mailer.Sent()
	s.Equal(types.InvoiceEmailTypeCancelled, sent[len(sent)-1].Type)

	// cancelled is terminal
	_, err = s.service.CancelInvoice(s.GetContext(), id)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestCancelPaidInvoiceRejected() {
	s.seedDefaultUser()
	inv := s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPaid, time.Now().UTC().AddDate(0, 0, 7))

	_, err := s.service.CancelInvoice(s.GetContext(), inv.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoiceRequiresCancelled() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	id := created.Invoice.ID

	_, err = s.service.DeleteInvoice(s.GetContext(), id)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CancelInvoice(s.GetContext(), id)
	s.NoError(err)

	resp, err := s.service.DeleteInvoice(s.GetContext(), id)
	s.NoError(err)
	s.Equal(dto.OutcomeSuccess, resp.Outcome)

	// gone from the store and from object storage
	_, err = s.service.GetInvoice(s.GetContext(), id)
	s.True(ierr.IsNotFound(err))
	_, stored := s.GetCollaborators().Documents.Document(id, s3.DocumentTypeInvoice)
	s.False(stored)

	sent := s.GetCollaborators().Mailer.Sent()
	s.Equal(types.InvoiceEmailTypeDeleted, sent[len(sent)-1].Type)
}

func (s *InvoiceServiceSuite) TestDeleteInvoiceDocumentFailureIsWarning() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	_, err = s.service.CancelInvoice(s.GetContext(), created.Invoice.ID)
	s.NoError(err)

	s.GetCollaborators().Documents.FailDelete = true
	resp, err := s.service.DeleteInvoice(s.GetContext(), created.Invoice.ID)
	s.NoError(err)
	s.Equal(dto.OutcomeWarning, resp.Outcome)
	s.Contains(resp.Warnings, WarnDocumentDelete)
}

func (s *InvoiceServiceSuite) TestSendReminder() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.SendReminder(s.GetContext(), created.Invoice.ID)
	s.NoError(err)
	s.Equal(dto.OutcomeSuccess, resp.Outcome)
	sent := s.GetCollaborators().Mailer.Sent()
	s.Equal(types.InvoiceEmailTypeReminder, sent[len(sent)-1].Type)

	// a paid invoice takes no reminders
	_, err = s.service.MarkInvoicePaid(s.GetContext(), created.Invoice.ID)
	s.NoError(err)
	_, err = s.service.SendReminder(s.GetContext(), created.Invoice.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestDownloadInvoiceStoredCopy() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	result, err := s.service.DownloadInvoice(s.GetContext(), created.Invoice.ID)
	s.NoError(err)
	s.NotEmpty(result.URL)
	s.Nil(result.Data)
	s.Equal("invoice-"+created.Invoice.ID+".pdf", result.FileName)
}

func (s *InvoiceServiceSuite) TestDownloadInvoiceRendersOnDemand() {
	s.seedDefaultUser()
	inv := s.seedInvoice(testutil.DefaultUserID, types.InvoiceStatusPending, time.Now().UTC().AddDate(0, 0, 7))

	result, err := s.service.DownloadInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Empty(result.URL)
	s.NotEmpty(result.Data)
}

func (s *InvoiceServiceSuite) TestOwnershipIsolation() {
	s.seedDefaultUser()
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	otherCtx := testutil.ContextForUser("user_other", "other@example.test")
	_, err = s.service.GetInvoice(otherCtx, created.Invoice.ID)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.MarkInvoicePaid(otherCtx, created.Invoice.ID)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListInvoices(otherCtx, nil)
	s.NoError(err)
	s.Equal(0, list.Total)
}

func (s *InvoiceServiceSuite) TestListInvoicesFilterByStatus() {
	s.seedDefaultUser()
	for i := 0; i < 2; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
		s.NoError(err)
	}

	list, err := s.service.ListInvoices(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(2, list.Total)
	s.Len(list.Items, 2)
	s.Equal(types.FilterDefaultLimit, list.Limit)

	pending := &types.InvoiceFilter{Status: lo.ToPtr(types.InvoiceStatusPending)}
	list, err = s.service.ListInvoices(s.GetContext(), pending)
	s.NoError(err)
	s.Equal(2, list.Total)

	paid := &types.InvoiceFilter{Status: lo.ToPtr(types.InvoiceStatusPaid)}
	list, err = s.service.ListInvoices(s.GetContext(), paid)
	s.NoError(err)
	s.Equal(0, list.Total)
}
