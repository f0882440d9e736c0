package pdf

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invixio/invixio/internal/domain/pdf"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/typst"
)

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderInvoicePdf(ctx context.Context, data *pdf.InvoiceData) ([]byte, error)
}

type service struct {
	typst typst.Compiler
}

// NewGenerator creates a new PDF generator backed by the typst compiler
func NewGenerator(typst typst.Compiler) Generator {
	return &service{typst: typst}
}

func (s *service) RenderInvoicePdf(ctx context.Context, data *pdf.InvoiceData) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to marshal invoice data").
			Mark(ierr.ErrSystem)
	}

	out, err := s.typst.CompileTemplate(
		"invoice.typ",
		jsonData,
		fmt.Sprintf("invoice-%s.pdf", data.ID),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to compile invoice template").
			Mark(ierr.ErrSystem)
	}
	return out, nil
}
