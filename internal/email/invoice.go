package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/invixio/invixio/internal/domain/invoice"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
)

// InvoiceMailer sends client-facing invoice notices. Implementations must
// treat the invoice as read-only.
type InvoiceMailer interface {
	SendInvoiceEmail(ctx context.Context, emailType types.InvoiceEmailType, inv *invoice.Invoice, pdf []byte) error
}

type invoiceMailer struct {
	email *Email
}

// NewInvoiceMailer creates the template-backed invoice mailer
func NewInvoiceMailer(email *Email) InvoiceMailer {
	return &invoiceMailer{email: email}
}

type notice struct {
	template string
	subject  string
}

var noticeByType = map[types.InvoiceEmailType]notice{
	types.InvoiceEmailTypeCreated:   {"invoice-created.html", "Invoice %s from %s"},
	types.InvoiceEmailTypeUpdated:   {"invoice-updated.html", "Invoice %s from %s was updated"},
	types.InvoiceEmailTypeReminder:  {"invoice-reminder.html", "Reminder: invoice %s from %s is due"},
	types.InvoiceEmailTypeCancelled: {"invoice-cancelled.html", "Invoice %s from %s was cancelled"},
	types.InvoiceEmailTypeDeleted:   {"invoice-deleted.html", "Invoice %s from %s was withdrawn"},
}

func (m *invoiceMailer) SendInvoiceEmail(ctx context.Context, emailType types.InvoiceEmailType, inv *invoice.Invoice, pdf []byte) error {
	n, ok := noticeByType[emailType]
	if !ok {
		return ierr.NewErrorf("unknown invoice email type: %s", emailType).
			Mark(ierr.ErrSystem)
	}

	req := SendEmailWithTemplateRequest{
		ToAddress:    inv.ClientEmail,
		Subject:      fmt.Sprintf(n.subject, inv.InvoiceNumber, inv.CompanyName),
		TemplateName: n.template,
		Data: map[string]interface{}{
			"client_name":    inv.ClientName,
			"company_name":   inv.CompanyName,
			"company_email":  inv.CompanyEmail,
			"invoice_number": inv.InvoiceNumber,
			"invoice_date":   inv.InvoiceDate.Format("2006-01-02"),
			"due_date":       inv.DueDate.Format("2006-01-02"),
			"currency":       inv.Currency,
			"total":          inv.Total.StringFixed(2),
		},
	}
	if len(pdf) > 0 {
		req.Attachments = []Attachment{{
			Filename: fmt.Sprintf("%s.pdf", strings.TrimPrefix(inv.InvoiceNumber, "#")),
			Content:  pdf,
		}}
	}

	resp, err := m.email.SendEmailWithTemplate(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return ierr.NewError("invoice email was not sent").
			WithHint(resp.Error).
			Mark(ierr.ErrSystem)
	}
	return nil
}
