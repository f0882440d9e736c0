package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/email"
	"github.com/invixio/invixio/internal/types"
)

var _ email.InvoiceMailer = (*MockInvoiceMailer)(nil)

// SentEmail records one delivery attempt.
type SentEmail struct {
	Type      types.InvoiceEmailType
	InvoiceID string
	To        string
	HasPDF    bool
}

// MockInvoiceMailer records sent notices, or fails on demand.
type MockInvoiceMailer struct {
	mu   sync.Mutex
	Fail bool
	sent []SentEmail
}

func NewMockInvoiceMailer() *MockInvoiceMailer {
	return &MockInvoiceMailer{}
}

func (m *MockInvoiceMailer) SendInvoiceEmail(ctx context.Context, emailType types.InvoiceEmailType, inv *invoice.Invoice, pdf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return fmt.Errorf("email delivery failed")
	}
	m.sent = append(m.sent, SentEmail{
		Type:      emailType,
		InvoiceID: inv.ID,
		To:        inv.ClientEmail,
		HasPDF:    len(pdf) > 0,
	})
	return nil
}

// Sent returns a copy of the delivery log.
func (m *MockInvoiceMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.sent...)
}

func (m *MockInvoiceMailer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fail = false
	m.sent = nil
}
