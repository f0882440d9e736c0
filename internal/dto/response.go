package dto

// Outcome tags a mutation response. A warning outcome means the durable write
// succeeded but a follow-up step (PDF render, upload, email) did not.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
)

// InvoiceActionResponse wraps an invoice mutation result together with its
// outcome tag and any collaborator warnings accumulated on the way out.
type InvoiceActionResponse struct {
	Outcome  Outcome          `json:"outcome"`
	Message  string           `json:"message,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
	Invoice  *InvoiceResponse `json:"invoice"`
}

// NewInvoiceActionResponse tags the response from the collected warnings.
func NewInvoiceActionResponse(inv *InvoiceResponse, warnings []string) *InvoiceActionResponse {
	resp := &InvoiceActionResponse{
		Outcome: OutcomeSuccess,
		Invoice: inv,
	}
	if len(warnings) > 0 {
		resp.Outcome = OutcomeWarning
		resp.Warnings = warnings
	}
	return resp
}

// MessageResponse is a bare acknowledgement payload.
type MessageResponse struct {
	Outcome  Outcome  `json:"outcome"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}
