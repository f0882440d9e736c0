package email

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// SendEmailWithTemplateRequest represents a request to send an email built
// from an HTML template. Placeholders of the form {{key}} in the template
// are replaced with the corresponding Data values.
type SendEmailWithTemplateRequest struct {
	FromAddress  string                 `json:"from_address" validate:"omitempty,email"`
	ToAddress    string                 `json:"to_address" validate:"required,email"`
	Subject      string                 `json:"subject" validate:"required"`
	TemplateName string                 `json:"template_name" validate:"required"`
	Data         map[string]interface{} `json:"data" validate:"omitempty"`
	Attachments  []Attachment           `json:"attachments,omitempty"`
}

// SendEmailResponse represents the response from sending an email
type SendEmailResponse struct {
	MessageID string
	Success   bool
	Error     string
}
