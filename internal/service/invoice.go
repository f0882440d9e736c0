package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/domain/pdf"
	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/s3"
	"github.com/invixio/invixio/internal/types"
)

// Stable warning messages returned when a collaborator fails after the
// invoice row is durably written.
const (
	WarnPDFGeneration  = "PDF generation failed"
	WarnPDFUpload      = "PDF upload failed"
	WarnEmailDelivery  = "email notification failed"
	WarnDocumentDelete = "stored PDF could not be removed"
)

// maxNumberRetries bounds invoice number reallocation when two requests race
// for the same sequence value.
const maxNumberRetries = 5

type InvoiceService interface {
	PreviewInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceActionResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceActionResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	MarkInvoiceUnpaid(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, id string) (*dto.InvoiceActionResponse, error)
	DeleteInvoice(ctx context.Context, id string) (*dto.MessageResponse, error)
	SendReminder(ctx context.Context, id string) (*dto.MessageResponse, error)
	DownloadInvoice(ctx context.Context, id string) (*DownloadInvoiceResult, error)
}

// DownloadInvoiceResult carries either a presigned URL or the raw document
// when object storage is disabled.
type DownloadInvoiceResult struct {
	URL      string
	Data     []byte
	FileName string
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) PreviewInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	u, err := s.requireOnboardedUser(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	inv := s.buildInvoice(u, req, now)
	inv.InvoiceStatus = types.InvoiceStatusDraft
	return dto.ToInvoiceResponse(inv), nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceActionResponse, error) {
	u, err := s.requireOnboardedUser(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	if err := s.checkPlanLimit(ctx, u.ID, now); err != nil {
		return nil, err
	}

	inv := s.buildInvoice(u, req, now)
	if err := s.persistWithNumber(ctx, u.ID, inv, now.Year()); err != nil {
		return nil, err
	}

	s.invalidateMonthCount(ctx, u.ID, now)

	warnings := s.finishInvoiceWrite(ctx, inv, types.InvoiceEmailTypeCreated)
	return dto.NewInvoiceActionResponse(dto.ToInvoiceResponse(inv), warnings), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceActionResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if !inv.InvoiceStatus.CanEdit() {
		return nil, ierr.NewError("invoice can no longer be modified").
			WithHintf("A %s invoice cannot be edited", inv.InvoiceStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	items := req.ToItems(inv.ID)
	totals := invoice.ComputeTotals(items, req.Adjustments(), s.adjustmentMode())

	inv.ClientName = req.ClientName
	inv.ClientEmail = req.ClientEmail
	inv.ClientAddress = req.ClientAddress
	inv.InvoiceDate = req.InvoiceDate
	inv.DueDate = req.DueDate
	inv.Subtotal = totals.Subtotal
	inv.Tax = totals.Tax
	inv.Discount = totals.Discount
	inv.TaxPercentage = req.TaxPercentage
	inv.DiscountPercentage = req.DiscountPercentage
	inv.Total = totals.Total
	inv.Notes = req.Notes
	inv.PaymentInstructions = req.PaymentInstructions
	if req.LogoURL != nil {
		inv.LogoURL = req.LogoURL
	}
	inv.Items = items

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.InvoiceRepo.UpdateWithItems(ctx, inv); err != nil {
		return nil, wrapNotFound(err)
	}

	warnings := s.finishInvoiceWrite(ctx, inv, types.InvoiceEmailTypeUpdated)
	return dto.NewInvoiceActionResponse(dto.ToInvoiceResponse(inv), warnings), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return dto.ToInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	if filter == nil {
		filter = &types.InvoiceFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.ToInvoiceResponse(inv))
	}
	return &dto.ListInvoicesResponse{
		Items:  items,
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if !inv.InvoiceStatus.CanMarkPaid() {
		hint := fmt.Sprintf("A %s invoice cannot be marked paid", inv.InvoiceStatus)
		if inv.InvoiceStatus == types.InvoiceStatusPaid {
			hint = "Invoice is already paid"
		}
		return nil, ierr.NewError("invalid status transition").
			WithHint(hint).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	if err := s.InvoiceRepo.UpdateStatus(ctx, userID, id, types.InvoiceStatusPaid, &now, nil); err != nil {
		return nil, wrapNotFound(err)
	}

	inv.InvoiceStatus = types.InvoiceStatusPaid
	inv.PaidAt = &now
	return dto.ToInvoiceResponse(inv), nil
}

func (s *invoiceService) MarkInvoiceUnpaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if !inv.InvoiceStatus.CanMarkUnpaid() {
		return nil, ierr.NewError("invalid status transition").
			WithHintf("A %s invoice cannot be marked unpaid", inv.InvoiceStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	// A reverted invoice lands back where its due date puts it.
	now := time.Now().UTC()
	next := types.InvoiceStatusPending
	if inv.IsOverdueAt(now) {
		next = types.InvoiceStatusOverdue
	}

	if err := s.InvoiceRepo.UpdateStatus(ctx, userID, id, next, nil, nil); err != nil {
		return nil, wrapNotFound(err)
	}

	inv.InvoiceStatus = next
	inv.PaidAt = nil
	return dto.ToInvoiceResponse(inv), nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, id string) (*dto.InvoiceActionResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if !inv.InvoiceStatus.CanCancel() {
		hint := fmt.Sprintf("A %s invoice cannot be cancelled", inv.InvoiceStatus)
		if inv.InvoiceStatus == types.InvoiceStatusPaid {
			hint = "A paid invoice cannot be cancelled; mark it unpaid first"
		}
		return nil, ierr.NewError("invalid status transition").
			WithHint(hint).
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	if err := s.InvoiceRepo.UpdateStatus(ctx, userID, id, types.InvoiceStatusCancelled, nil, &now); err != nil {
		return nil, wrapNotFound(err)
	}

	inv.InvoiceStatus = types.InvoiceStatusCancelled
	inv.CancelledAt = &now

	var warnings []string
	if err := s.Mailer.SendInvoiceEmail(ctx, types.InvoiceEmailTypeCancelled, inv, nil); err != nil {
		s.Logger.Errorw("cancellation notice failed", "error", err, "invoice_id", inv.ID)
		warnings = append(warnings, WarnEmailDelivery)
	}
	return dto.NewInvoiceActionResponse(dto.ToInvoiceResponse(inv), warnings), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) (*dto.MessageResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if inv.InvoiceStatus != types.InvoiceStatusCancelled {
		return nil, ierr.NewError("invoice is not cancelled").
			WithHint("Only cancelled invoices can be deleted").
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.InvoiceRepo.Delete(ctx, userID, id); err != nil {
		return nil, wrapNotFound(err)
	}

	s.invalidateMonthCount(ctx, userID, inv.CreatedAt)

	var warnings []string
	if s.S3 != nil {
		if err := s.S3.DeleteDocument(ctx, inv.ID, s3.DocumentTypeInvoice); err != nil {
			s.Logger.Errorw("failed to remove stored invoice document", "error", err, "invoice_id", inv.ID)
			warnings = append(warnings, WarnDocumentDelete)
		}
	}
	if err := s.Mailer.SendInvoiceEmail(ctx, types.InvoiceEmailTypeDeleted, inv, nil); err != nil {
		s.Logger.Errorw("deletion notice failed", "error", err, "invoice_id", inv.ID)
		warnings = append(warnings, WarnEmailDelivery)
	}

	resp := &dto.MessageResponse{
		Outcome: dto.OutcomeSuccess,
		Message: "invoice deleted",
	}
	if len(warnings) > 0 {
		resp.Outcome = dto.OutcomeWarning
		resp.Warnings = warnings
	}
	return resp, nil
}

func (s *invoiceService) SendReminder(ctx context.Context, id string) (*dto.MessageResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if inv.InvoiceStatus != types.InvoiceStatusPending && inv.InvoiceStatus != types.InvoiceStatusOverdue {
		return nil, ierr.NewError("invoice is not awaiting payment").
			WithHintf("A %s invoice does not take payment reminders", inv.InvoiceStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.Mailer.SendInvoiceEmail(ctx, types.InvoiceEmailTypeReminder, inv, nil); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{
		Outcome: dto.OutcomeSuccess,
		Message: "reminder sent",
	}, nil
}

func (s *invoiceService) DownloadInvoice(ctx context.Context, id string) (*DownloadInvoiceResult, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	inv, err := s.InvoiceRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	fileName := fmt.Sprintf("invoice-%s.pdf", inv.ID)

	if s.S3 != nil {
		exists, err := s.S3.Exists(ctx, inv.ID, s3.DocumentTypeInvoice)
		if err != nil {
			return nil, err
		}
		if exists {
			url, err := s.S3.GetPresignedUrl(ctx, inv.ID, s3.DocumentTypeInvoice)
			if err != nil {
				return nil, err
			}
			return &DownloadInvoiceResult{URL: url, FileName: fileName}, nil
		}
	}

	// No stored copy; render on demand.
	data, err := s.PDFGenerator.RenderInvoicePdf(ctx, buildPdfData(inv))
	if err != nil {
		return nil, err
	}
	return &DownloadInvoiceResult{Data: data, FileName: fileName}, nil
}

// --- helpers ---

func (s *invoiceService) requireOnboardedUser(ctx context.Context) (*user.User, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ierr.WithError(err).
				WithHint("Complete onboarding before issuing invoices").
				Mark(ierr.ErrInvalidOperation)
		}
		return nil, err
	}
	if !u.Onboarded {
		return nil, ierr.NewError("user has not completed onboarding").
			WithHint("Complete onboarding before issuing invoices").
			Mark(ierr.ErrInvalidOperation)
	}
	return u, nil
}

func (s *invoiceService) adjustmentMode() types.AdjustmentMode {
	return s.Config.Invoice.AdjustmentMode
}

func (s *invoiceService) buildInvoice(u *user.User, req dto.CreateInvoiceRequest, now time.Time) *invoice.Invoice {
	items := req.ToItems()
	totals := invoice.ComputeTotals(items, req.Adjustments(), s.adjustmentMode())

	currency := req.Currency
	if currency == "" {
		currency = u.Currency
	}

	inv := &invoice.Invoice{
		ID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		UserID: u.ID,

		CompanyName:    u.CompanyName,
		CompanyEmail:   u.CompanyEmail,
		CompanyAddress: u.CompanyAddress,

		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,

		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,

		Currency:           currency,
		Subtotal:           totals.Subtotal,
		Tax:                totals.Tax,
		Discount:           totals.Discount,
		TaxPercentage:      req.TaxPercentage,
		DiscountPercentage: req.DiscountPercentage,
		Total:              totals.Total,

		InvoiceStatus: types.InvoiceStatusPending,

		Notes:               req.Notes,
		PaymentInstructions: req.PaymentInstructions,
		LogoURL:             req.LogoURL,

		Items:     items,
		BaseModel: types.GetDefaultBaseModel(),
	}
	for _, item := range items {
		item.InvoiceID = inv.ID
	}
	return inv
}

// persistWithNumber allocates the next invoice number and writes the invoice,
// retrying allocation when a concurrent create wins the same number. The
// unique constraint on (user_id, invoice_number) is the arbiter.
func (s *invoiceService) persistWithNumber(ctx context.Context, userID string, inv *invoice.Invoice, year int) error {
	ceiling := s.Config.Billing.InvoiceSequenceCeiling

	operation := func() error {
		last, err := s.InvoiceRepo.MaxInvoiceNumber(ctx, userID, invoice.YearPrefix(year))
		if err != nil {
			return backoff.Permanent(err)
		}
		number, err := invoice.NextNumber(last, year, ceiling)
		if err != nil {
			return backoff.Permanent(err)
		}
		inv.InvoiceNumber = number

		if err := inv.Validate(); err != nil {
			return backoff.Permanent(err)
		}
		if err := s.InvoiceRepo.CreateWithItems(ctx, inv); err != nil {
			if errors.Is(err, invoice.ErrDuplicateNumber) {
				s.Logger.Warnw("retrying invoice number allocation",
					"user_id", userID,
					"invoice_number", number,
				)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxNumberRetries))
}

// finishInvoiceWrite runs the post-persistence pipeline: render, upload,
// notify. Failures degrade to warnings; the stored invoice is already the
// source of truth.
func (s *invoiceService) finishInvoiceWrite(ctx context.Context, inv *invoice.Invoice, emailType types.InvoiceEmailType) []string {
	var warnings []string

	data, err := s.PDFGenerator.RenderInvoicePdf(ctx, buildPdfData(inv))
	if err != nil {
		s.Logger.Errorw("invoice PDF generation failed", "error", err, "invoice_id", inv.ID)
		warnings = append(warnings, WarnPDFGeneration)
	}

	if len(data) > 0 && s.S3 != nil {
		if err := s.S3.UploadDocument(ctx, s3.NewPdfDocument(inv.ID, data)); err != nil {
			s.Logger.Errorw("invoice PDF upload failed", "error", err, "invoice_id", inv.ID)
			warnings = append(warnings, WarnPDFUpload)
		} else if url, err := s.S3.PublicUrl(inv.ID, s3.DocumentTypeInvoice); err == nil {
			if err := s.InvoiceRepo.SetPDFURL(ctx, inv.UserID, inv.ID, url); err == nil {
				inv.PDFURL = &url
			}
		}
	}

	if err := s.Mailer.SendInvoiceEmail(ctx, emailType, inv, data); err != nil {
		s.Logger.Errorw("invoice notice failed",
			"error", err,
			"invoice_id", inv.ID,
			"email_type", emailType,
		)
		warnings = append(warnings, WarnEmailDelivery)
	}

	return warnings
}

func (s *invoiceService) checkPlanLimit(ctx context.Context, userID string, now time.Time) error {
	sub, err := s.SubscriptionRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return err
	}
	if sub.IsActive() {
		return nil
	}

	start, end := types.PricingMonthRange(now)
	count, err := s.InvoiceRepo.CountInRange(ctx, userID, start, end)
	if err != nil {
		return err
	}

	limit := s.Config.Billing.FreePlanInvoiceLimit
	if count >= limit {
		return ierr.NewError("free plan invoice limit reached").
			WithHintf("The free plan allows %d invoices per month; upgrade to continue", limit).
			WithReportableDetails(map[string]any{
				"limit": limit,
				"count": count,
			}).
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

func (s *invoiceService) invalidateMonthCount(ctx context.Context, userID string, at time.Time) {
	key := cache.GenerateKey(cache.PrefixInvoiceCount, userID, types.MonthKey(at))
	s.Cache.Delete(ctx, key)
}

func buildPdfData(inv *invoice.Invoice) *pdf.InvoiceData {
	items := make([]pdf.LineItemData, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, pdf.LineItemData{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	logo := ""
	if inv.LogoURL != nil {
		logo = *inv.LogoURL
	}

	return &pdf.InvoiceData{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceStatus: inv.InvoiceStatus.String(),
		Currency:      inv.Currency,
		LogoImage:     logo,
		InvoiceDate:   pdf.CustomTime{Time: inv.InvoiceDate},
		DueDate:       pdf.CustomTime{Time: inv.DueDate},
		Biller: &pdf.BillerInfo{
			Name:    inv.CompanyName,
			Email:   inv.CompanyEmail,
			Address: inv.CompanyAddress,
		},
		Recipient: &pdf.RecipientInfo{
			Name:    inv.ClientName,
			Email:   inv.ClientEmail,
			Address: inv.ClientAddress,
		},
		LineItems:           items,
		Subtotal:            inv.Subtotal,
		Tax:                 inv.Tax,
		Discount:            inv.Discount,
		Total:               inv.Total,
		Notes:               inv.Notes,
		PaymentInstructions: inv.PaymentInstructions,
	}
}

func unauthenticatedErr() error {
	return ierr.NewError("missing authenticated user").
		WithHint("Authentication required").
		Mark(ierr.ErrPermissionDenied)
}

// wrapNotFound maps the repository's sentinel onto the HTTP-facing error
// taxonomy; the same shape covers missing and foreign invoices.
func wrapNotFound(err error) error {
	if errors.Is(err, invoice.ErrInvoiceNotFound) {
		return ierr.WithError(err).
			WithHint("Invoice not found").
			Mark(ierr.ErrNotFound)
	}
	return err
}
