package testutil

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/invixio/invixio/internal/domain/pdf"
	"github.com/invixio/invixio/internal/pdf"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

// MockPDFGenerator returns a fixed payload, or fails on demand to exercise
// the warning path after a durable write.
type MockPDFGenerator struct {
	mu       sync.Mutex
	Fail     bool
	rendered []string
}

func NewMockPDFGenerator() *MockPDFGenerator {
	return &MockPDFGenerator{}
}

func (m *MockPDFGenerator) RenderInvoicePdf(ctx context.Context, data *domain.InvoiceData) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return nil, fmt.Errorf("pdf render failed")
	}
	m.rendered = append(m.rendered, data.ID)
	return []byte("%PDF-1.7 " + data.InvoiceNumber), nil
}

// Rendered returns the invoice ids rendered so far.
func (m *MockPDFGenerator) Rendered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.rendered...)
}

func (m *MockPDFGenerator) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fail = false
	m.rendered = nil
}
