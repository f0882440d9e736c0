package service

import (
	"github.com/invixio/invixio/internal/cache"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/email"
	"github.com/invixio/invixio/internal/httpclient"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/pdf"
	"github.com/invixio/invixio/internal/postgres"
	"github.com/invixio/invixio/internal/s3"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	InvoiceRepo      invoice.Repository
	UserRepo         user.Repository
	SubscriptionRepo subscription.Repository

	// Collaborators. S3 is nil when object storage is disabled.
	PDFGenerator pdf.Generator
	S3           s3.Service
	Mailer       email.InvoiceMailer
	Cache        cache.Cache
	Client       httpclient.Client
}

// NewServiceParams bundles the dependencies for fx
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	invoiceRepo invoice.Repository,
	userRepo user.Repository,
	subscriptionRepo subscription.Repository,
	pdfGenerator pdf.Generator,
	s3Service s3.Service,
	mailer email.InvoiceMailer,
	cacheStore cache.Cache,
	client httpclient.Client,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		DB:               db,
		InvoiceRepo:      invoiceRepo,
		UserRepo:         userRepo,
		SubscriptionRepo: subscriptionRepo,
		PDFGenerator:     pdfGenerator,
		S3:               s3Service,
		Mailer:           mailer,
		Cache:            cacheStore,
		Client:           client,
	}
}
