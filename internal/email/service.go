package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/logger"
)

// Email handles outgoing mail built from HTML templates.
type Email struct {
	client      *EmailClient
	templateDir string
	logger      *logger.Logger
}

// NewEmail creates a new email service
func NewEmail(client *EmailClient, cfg *config.Configuration, logger *logger.Logger) *Email {
	return &Email{
		client:      client,
		templateDir: cfg.Email.TemplateDir,
		logger:      logger,
	}
}

// IsEnabled reports whether sends will actually go out.
func (s *Email) IsEnabled() bool {
	return s.client.IsEnabled()
}

// SendEmailWithTemplate sends an email using an HTML template. A disabled
// client logs and reports a non-success response without an error, so
// callers in degraded environments keep working.
func (s *Email) SendEmailWithTemplate(ctx context.Context, req SendEmailWithTemplateRequest) (*SendEmailResponse, error) {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", req.ToAddress,
			"subject", req.Subject,
			"template", req.TemplateName,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   "email client is disabled",
		}, nil
	}

	fromAddress := req.FromAddress
	if fromAddress == "" {
		fromAddress = s.client.GetFromAddress()
	}

	htmlContent, err := s.readTemplate(req.TemplateName)
	if err != nil {
		s.logger.Errorw("failed to read email template",
			"error", err,
			"template", req.TemplateName,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	htmlContent = s.replacePlaceholders(htmlContent, req.Data)

	messageID, err := s.client.SendEmail(ctx, fromAddress, req.ToAddress, req.Subject, htmlContent, req.Attachments)
	if err != nil {
		s.logger.Errorw("failed to send templated email",
			"error", err,
			"from", fromAddress,
			"to", req.ToAddress,
			"subject", req.Subject,
			"template", req.TemplateName,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	s.logger.Infow("templated email sent",
		"message_id", messageID,
		"to", req.ToAddress,
		"subject", req.Subject,
		"template", req.TemplateName,
	)

	return &SendEmailResponse{
		MessageID: messageID,
		Success:   true,
	}, nil
}

// readTemplate reads an HTML template from the configured template directory
func (s *Email) readTemplate(templateName string) (string, error) {
	dir := s.templateDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = filepath.Join(cwd, "assets", "email-templates")
	}

	content, err := os.ReadFile(filepath.Join(dir, templateName))
	if err != nil {
		return "", fmt.Errorf("failed to read template file: %w", err)
	}
	return string(content), nil
}

// replacePlaceholders replaces {{key}} placeholders with actual data
func (s *Email) replacePlaceholders(template string, data map[string]interface{}) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, fmt.Sprintf("%v", value))
	}
	return result
}
